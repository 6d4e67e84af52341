package main

import "github.com/jcdickinson/doxyschema/cmd"

func main() {
	cmd.Execute()
}
