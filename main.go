package main

import "github.com/ValentinKolb/mllp/cmd"

func main() {
	cmd.Execute()
}
