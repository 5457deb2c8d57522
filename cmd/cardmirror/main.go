package main

import "card-mirror/cmd"

func main() {
	cmd.Execute()
}
