// Package catalog loads whitespace-delimited ASCII photometric catalogs into
// typed, column-oriented tables.
package catalog

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseFile opens and parses a catalog file. The caller is responsible for
// having fetched and extracted the archive beforehand.
func ParseFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: open")
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a whitespace-delimited table with a header line naming each
// column. A leading "#" on the header is tolerated, as survey catalogs
// commonly prefix it. Column types are inferred per column: all-integer
// columns become Int, otherwise all-numeric columns become Float, otherwise
// String. Returns a ParseError if the header is missing or any row's field
// count disagrees with the header.
func Parse(r io.Reader) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		text = strings.TrimPrefix(text, "#")
		header = strings.Fields(text)
		break
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "catalog: read")
	}
	if len(header) == 0 {
		return nil, &ParseError{Msg: "missing header line"}
	}

	raw := make([][]string, len(header))
	nrows := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != len(header) {
			return nil, &ParseError{Line: line, Msg: "row has " + strconv.Itoa(len(fields)) + " columns, header has " + strconv.Itoa(len(header))}
		}
		for i, v := range fields {
			raw[i] = append(raw[i], v)
		}
		nrows++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "catalog: read")
	}

	cols := make([]Column, len(header))
	for i, name := range header {
		cols[i] = inferColumn(name, raw[i])
	}
	return newTable(cols, nrows), nil
}

// inferColumn scans a whole column of cells and picks the narrowest type
// that represents every value.
func inferColumn(name string, cells []string) Column {
	isInt, isFloat := true, true
	for _, v := range cells {
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt && isFloat {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isFloat = false
				break
			}
		}
	}
	c := Column{Name: name}
	switch {
	case isInt:
		c.Type = Int
		c.Ints = make([]int64, len(cells))
		for i, v := range cells {
			c.Ints[i], _ = strconv.ParseInt(v, 10, 64)
		}
	case isFloat:
		c.Type = Float
		c.Floats = make([]float64, len(cells))
		for i, v := range cells {
			c.Floats[i], _ = strconv.ParseFloat(v, 64)
		}
	default:
		c.Type = String
		c.Strs = make([]string, len(cells))
		copy(c.Strs, cells)
	}
	return c
}
