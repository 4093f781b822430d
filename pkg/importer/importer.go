// Package importer loads the line-oriented bulk format into a network.
//
// Each non-blank line is one pipe-delimited record whose first field is a tag:
//
//	CLIENT|A1|Ann|100
//	BASIC|111111|A1|ON
//	FANCY|222222|A1|OFF
//	FRIENDS|111111|222222,333333
//
// Lines starting with # are comments.
package importer

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/prr/pkg/network"
)

// Registrar accepts one import record at a time. *network.Network implements it.
type Registrar interface {
	RegisterEntry(fields ...string) error
}

// Stats counts what an import registered.
type Stats struct {
	Lines       int `json:"lines"`
	Clients     int `json:"clients"`
	Terminals   int `json:"terminals"`
	Friendships int `json:"friendships"`
}

// Import reads records from r and registers them in order. It stops at the first failing
// record; records before it stay registered. The error names the line and wraps the cause,
// so errors.Is works with the domain categories.
func Import(ctx context.Context, r io.Reader, reg Registrar) (Stats, error) {
	var st Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return st, err
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if err := reg.RegisterEntry(fields...); err != nil {
			return st, fmt.Errorf("line %d: %w", lineNo, err)
		}
		st.Lines++
		st.count(fields)
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("read import: %w", err)
	}
	return st, nil
}

func (st *Stats) count(fields []string) {
	switch strings.ToUpper(strings.TrimSpace(fields[0])) {
	case network.TagClient:
		st.Clients++
	case network.TagBasic, network.TagFancy:
		st.Terminals++
	case network.TagFriends:
		if len(fields) > 2 {
			for _, f := range strings.Split(fields[2], ",") {
				if strings.TrimSpace(f) != "" {
					st.Friendships++
				}
			}
		}
	}
}
