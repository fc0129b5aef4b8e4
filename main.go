package main

import "github.com/ValentinKolb/tRS/cmd"

func main() {
	cmd.Execute()
}
