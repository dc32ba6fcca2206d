package main

import "github.com/lepinkainen/gamedeals/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
