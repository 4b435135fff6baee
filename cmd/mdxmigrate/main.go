package main

import "github.com/dgallion1/mdxmigrate/cmd/mdxmigrate/cmd"

func main() {
	cmd.Execute()
}
