/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package tournament

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// decodeHTML reads an entry list published as an HTML table. The first
// table whose header row has name, rating and draw columns is used; the page
// title becomes the tournament name.
func decodeHTML(data []byte) (*document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrMalformed, err)
	}

	out := &document{Players: make(map[string]playerRecord)}
	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		out.Tournament = &tournamentRecord{Name: title}
	}

	found := false
	var parseErr error
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols, header, ok := entryColumns(table)
		if !ok {
			return true
		}
		found = true
		parseErr = readEntryRows(table, header, cols, out)
		return false
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if !found {
		return nil, fmt.Errorf("%w: html: no table with name, rating and draw columns",
			ErrMalformed)
	}

	return out, nil
}

type entryCols struct {
	name, rating, draw int
}

func entryColumns(table *goquery.Selection) (entryCols, *goquery.Selection, bool) {
	cols := entryCols{name: -1, rating: -1, draw: -1}

	header := table.Find("thead tr").First()
	if header.Length() == 0 {
		header = table.Find("tr").First()
	}
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		switch strings.ToLower(cleanText(cell.Text())) {
		case "name", "player":
			cols.name = i
		case "rating", "elo":
			cols.rating = i
		case "draw", "position", "pos":
			cols.draw = i
		}
	})

	return cols, header, cols.name >= 0 && cols.rating >= 0 && cols.draw >= 0
}

func readEntryRows(table *goquery.Selection, header *goquery.Selection,
	cols entryCols, out *document) error {

	var err error
	table.Find("tr").EachWithBreak(func(rowNum int, row *goquery.Selection) bool {
		if row.IsSelection(header) || row.Find("th").Length() > 0 {
			return true
		}
		cells := row.Find("td")
		if cells.Length() == 0 {
			return true
		}
		name := cleanText(cells.Eq(cols.name).Text())
		if name == "" {
			return true
		}
		if _, dup := out.Players[name]; dup {
			err = fmt.Errorf("%w: html row %v: player %v listed twice",
				ErrMalformed, rowNum+1, name)
			return false
		}

		var rec playerRecord
		rec.Elo, err = cellInt(cells.Eq(cols.rating), rowNum, "rating")
		if err != nil {
			return false
		}
		rec.Draw, err = cellInt(cells.Eq(cols.draw), rowNum, "draw")
		if err != nil {
			return false
		}
		out.Players[name] = rec
		return true
	})

	return err
}

// cellInt returns nil for an empty cell so that validation reports it as
// missing.
func cellInt(cell *goquery.Selection, rowNum int, what string) (*int, error) {
	s := cleanText(cell.Text())
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: html row %v: %v %q is not an integer",
			ErrMalformed, rowNum+1, what, s)
	}
	return &v, nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
