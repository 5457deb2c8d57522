package models

// Card is one exported artwork row, keyed by passcode.
type Card struct {
	Passcode  int    `gorm:"column:passcode;primaryKey;autoIncrement:false"`
	KonamiID  int    `gorm:"column:konami_id;index"`
	Name      string `gorm:"column:name;size:255"`
	Type      string `gorm:"column:type;size:64"`
	Archetype string `gorm:"column:archetype;size:128"`
	Attribute string `gorm:"column:attribute;size:16"`
	Atk       *int   `gorm:"column:atk"`
	Def       *int   `gorm:"column:def"`
	Level     *int   `gorm:"column:level"`
	// VariantOf is the first passcode of the artwork's print group.
	VariantOf int `gorm:"column:variant_of;index"`
}

func (Card) TableName() string { return "cards" }

// CardName is a localized name of an internal identifier.
type CardName struct {
	KonamiID int    `gorm:"column:konami_id;primaryKey;autoIncrement:false"`
	Language string `gorm:"column:language;primaryKey;size:8"`
	Name     string `gorm:"column:name;size:255"`
}

func (CardName) TableName() string { return "card_names" }

// CardPrint maps a print code to an internal identifier.
type CardPrint struct {
	Code     string `gorm:"column:code;primaryKey;size:32"`
	SetCode  string `gorm:"column:set_code;size:24;index"`
	KonamiID int    `gorm:"column:konami_id;index"`
}

func (CardPrint) TableName() string { return "card_prints" }

// Columns lists the columns each exported table must have.
var Columns = map[string][]string{
	"cards":       {"passcode", "konami_id", "name", "type", "archetype", "attribute", "atk", "def", "level", "variant_of"},
	"card_names":  {"konami_id", "language", "name"},
	"card_prints": {"code", "set_code", "konami_id"},
}
