// Package report turns the search tool's human-readable output into records.
package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/chronicle-gateway/internal/domain/search/result"
)

// Line prefixes recognized inside a result block.
const (
	typePrefix   = "Type:"
	orderPrefix  = "Order:"
	parentPrefix = "Parent:"
	separator    = "---"
)

var (
	markerRe = regexp.MustCompile(`Result #(\d+)`)
	parentRe = regexp.MustCompile(`Message #(\d+)`)
)

type state int

const (
	outsideRecord state = iota
	insideRecord
)

// parser is a single forward pass over report lines with no backtracking.
type parser struct {
	state   state
	current result.Record
	body    []string
	records []result.Record
}

// Parse converts a search report into records in the order their
// "Result #N" markers appear. Text before the first marker is ignored.
// A report without markers yields an empty, non-nil slice.
func Parse(output string) []result.Record {
	p := &parser{records: []result.Record{}}
	for _, line := range strings.Split(output, "\n") {
		p.feed(strings.TrimSuffix(line, "\r"))
	}
	p.finalize()
	return p.records
}

func (p *parser) feed(line string) {
	if m := markerRe.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// Digits that overflow int cannot be a record number; drop the line.
			return
		}
		p.finalize()
		p.open(n)
		return
	}

	if p.state != insideRecord {
		return
	}

	switch {
	case strings.HasPrefix(line, typePrefix):
		kind := strings.TrimSpace(strings.TrimPrefix(line, typePrefix))
		p.current.Type = &kind
	case strings.HasPrefix(line, orderPrefix):
		p.current.Order = parseInt(strings.TrimPrefix(line, orderPrefix))
	case strings.HasPrefix(line, parentPrefix):
		if m := parentRe.FindStringSubmatch(line); m != nil {
			p.current.Parent = parseInt(m[1])
		}
	case strings.Contains(line, separator):
		// skip
	case strings.TrimSpace(line) == "":
		// skip
	default:
		p.body = append(p.body, line)
	}
}

func (p *parser) open(number int) {
	p.state = insideRecord
	p.current = result.Record{Number: number}
	p.body = p.body[:0]
}

func (p *parser) finalize() {
	if p.state != insideRecord {
		return
	}
	p.current.Text = strings.TrimSpace(strings.Join(p.body, "\n"))
	p.records = append(p.records, p.current)
	p.state = outsideRecord
}

// parseInt returns nil for anything that is not a plain base-10 int.
func parseInt(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}
