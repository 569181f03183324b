package main

import "antenna-scraper/cmd"

func main() {
	cmd.Execute()
}
