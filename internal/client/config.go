// Package client implements a command-line client for the employee status API.
package client

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

type ClientConfig struct {
	Address        string
	Token          string
	NationalNumber string
	BustCache      bool
	Gzip           bool
}

func NewClientConfig() (*ClientConfig, error) {
	return ParseClientConfig(os.Args[1:])
}

func ParseClientConfig(args []string) (*ClientConfig, error) {
	config := &ClientConfig{
		Address: "localhost:8080",
		Gzip:    true,
	}

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	address := fs.String("a", config.Address, "server address")
	token := fs.String("t", "", "bearer token")
	national := fs.String("n", "", "national number of the employee")
	bustCache := fs.Bool("b", false, "bypass the response cache")
	gzipBody := fs.Bool("z", config.Gzip, "gzip the request body")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	envStrVars := map[string]*string{
		"ADDRESS":         address,
		"API_TOKEN":       token,
		"NATIONAL_NUMBER": national,
	}
	for envVar, flag := range envStrVars {
		if envValue := os.Getenv(envVar); envValue != "" {
			*flag = envValue
		}
	}
	if envBust := os.Getenv("BUST_CACHE"); envBust != "" {
		bust, err := strconv.ParseBool(envBust)
		if err != nil {
			return nil, fmt.Errorf("invalid BUST_CACHE value %q: %w", envBust, err)
		}
		*bustCache = bust
	}

	config.Address = *address
	config.Token = *token
	config.NationalNumber = *national
	config.BustCache = *bustCache
	config.Gzip = *gzipBody

	if config.NationalNumber == "" {
		return nil, fmt.Errorf("national number is required")
	}
	return config, nil
}
