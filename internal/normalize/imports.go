package normalize

import "strings"

// commonImports maps a usage keyword to the import statement it needs.
// Evaluated in order so injected imports are deterministic.
var commonImports = []struct {
	keyword   string
	statement string
}{
	{"requests.", "import requests"},
	{"json.", "import json"},
	{"sys.", "import sys"},
	{"os.", "import os"},
	{"pd.", "import pandas as pd"},
	{"np.", "import numpy as np"},
	{"BeautifulSoup", "from bs4 import BeautifulSoup"},
	{"yf.", "import yfinance as yf"},
}

// InjectImports prepends import statements for common libraries the code
// uses but does not import. Code without missing imports is returned
// unchanged.
func InjectImports(code string) string {
	var injections []string
	for _, lib := range commonImports {
		if strings.Contains(code, lib.keyword) && !strings.Contains(code, lib.statement) {
			injections = append(injections, lib.statement)
		}
	}
	if len(injections) == 0 {
		return code
	}
	return strings.Join(injections, "\n") + "\n\n" + code
}
