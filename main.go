package main

import "github.com/KaramelBytes/csvstats/cmd"

func main() {
	cmd.Execute()
}
