package main

import "order-sync/cmd"

func main() {
	cmd.Execute()
}
