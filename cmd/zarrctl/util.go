package main

import (
	"io"
	"os"
)

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}
