package main

import "github.com/ValentinKolb/vgraph/cmd"

func main() {
	cmd.Execute()
}
