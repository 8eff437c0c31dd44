// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Filter keywords. Each takes exactly one following argument.
const (
	KeyAuthor = "by"
	KeyVenue  = "at"
	KeyYear   = "in"
	KeyTag    = "with"
)

// Filter selects papers. Zero-valued fields match everything.
type Filter struct {
	Title  *regexp.Regexp // matched against title and nickname
	Author string         // case-insensitive substring of any author
	Venue  string         // case-insensitive venue equality
	Year   int
	Tag    string
}

// ParseFilter builds a Filter from command arguments:
//
//	shadow tutor by Chung at OSDI in 2020 with gpu
//
// Words not consumed by a keyword are joined with spaces and compiled as a
// case-insensitive regular expression over title and nickname.
func ParseFilter(args []string) (Filter, error) {
	var f Filter
	var words []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case KeyAuthor, KeyVenue, KeyYear, KeyTag:
			if i+1 >= len(args) {
				return Filter{}, fmt.Errorf("%q requires a value", arg)
			}
			i++
			val := args[i]
			switch arg {
			case KeyAuthor:
				f.Author = val
			case KeyVenue:
				f.Venue = val
			case KeyYear:
				y, err := strconv.Atoi(val)
				if err != nil {
					return Filter{}, fmt.Errorf("invalid year %q", val)
				}
				f.Year = y
			case KeyTag:
				f.Tag = val
			}
		default:
			words = append(words, arg)
		}
	}

	if len(words) > 0 {
		re, err := regexp.Compile("(?i)" + strings.Join(words, " "))
		if err != nil {
			return Filter{}, fmt.Errorf("invalid title pattern: %w", err)
		}
		f.Title = re
	}
	return f, nil
}

// Empty reports whether the filter matches every paper.
func (f Filter) Empty() bool {
	return f.Title == nil && f.Author == "" && f.Venue == "" && f.Year == 0 && f.Tag == ""
}

// Match reports whether p satisfies every set criterion.
func (f Filter) Match(p Paper) bool {
	if f.Title != nil && !f.Title.MatchString(p.Title) && !f.Title.MatchString(p.Nickname) {
		return false
	}
	if f.Author != "" {
		found := false
		needle := strings.ToLower(f.Author)
		for _, a := range p.Authors {
			if strings.Contains(strings.ToLower(a), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Venue != "" && !strings.EqualFold(f.Venue, p.Venue) {
		return false
	}
	if f.Year != 0 && f.Year != p.Year {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	return true
}

// Select returns the ids of papers in ps that match f, preserving order.
func (f Filter) Select(ps []Paper) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		if f.Match(p) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
