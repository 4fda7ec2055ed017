package main

import (
	"log"
	"os"
)

func main() {
	loadSalaries()
	log.Fatal("allowed in main")
}

func loadSalaries() {
	panic("no salaries") // want "found usage of panic"

	log.Fatalf("no user %s", "NAT1001") // want "found usage of log.Fatalf outside of main function"

	os.Exit(1) // want "found usage of os.Exit outside of main function"
}
