package main

import "github.com/chemviz/chemviz/cmd"

func main() {
	cmd.Execute()
}
