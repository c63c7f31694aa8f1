package main

import "github.com/coe-acad/p2p-solar-trade/cmd"

func main() {
	cmd.Execute()
}
