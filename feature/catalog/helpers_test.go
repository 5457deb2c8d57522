package catalog

import (
	"context"

	"card-mirror/core/identity"
)

type stubResolver struct {
	idx *identity.Index
	err error
}

func (s stubResolver) Index(context.Context) (*identity.Index, error) {
	return s.idx, s.err
}

func testIndex() *identity.Index {
	blueEyes := &identity.Group{Members: []int{1, 2}}
	prints := &identity.Group{Members: []int{89631139, 89631140}}
	atk, def, level := 3000, 2500, 8
	card := &identity.Card{
		ID: 89631139, Name: "Blue-Eyes White Dragon", Type: "Normal Monster",
		Archetype: "Blue-Eyes", Attribute: "LIGHT", Atk: &atk, Def: &def, Level: &level,
	}

	return &identity.Index{
		PasscodeToID: map[int]int{89631139: 1, 89631140: 1, 46986414: 3},
		IDToPasscode: map[int]int{1: 89631139, 3: 46986414},
		PasscodeGroups: map[int]*identity.Group{
			89631139: prints,
			89631140: prints,
			46986414: {Members: []int{46986414}},
		},
		IDGroups: map[int]*identity.Group{
			1: blueEyes,
			2: blueEyes,
			3: {Members: []int{3}},
		},
		IDToArchetype: map[int]string{1: "Blue-Eyes", 2: "Blue-Eyes"},
		Passcodes:     []int{46986414, 89631139, 89631140},
		Cards: map[int]*identity.Card{
			89631139: card,
			89631140: card,
			46986414: {ID: 46986414, Name: "Dark Magician", Type: "Normal Monster"},
		},
		Names: map[string]map[int]string{
			"en": {1: "Blue-Eyes White Dragon", 2: "Blue-Eyes White Dragon", 3: "Dark Magician"},
			"fr": {1: "Dragon Blanc aux Yeux Bleus", 3: "Magicien Sombre"},
			"ja": {3: "ブラック・マジシャン"},
		},
		PrintCodes: map[string]int{"LOB-EN001": 1, "LOB-EN005": 3},
		PrintSets:  []string{"LOB-EN"},
	}
}
