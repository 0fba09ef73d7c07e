package main

import "github.com/MeKo-Tech/imgbatch/cmd/imgbatch/cmd"

func main() {
	cmd.Execute()
}
