package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"

	"github.com/mrcar-cl/tasador/internal/domain/vehicle"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

const patenteChileHome = "https://www.patentechile.com/"

// PatenteChileProvider drives the patentechile.com search form and reads the
// results table.  It is the slowest plate source and sits last in the chain.
type PatenteChileProvider struct {
	session *Session
}

// NewPatenteChileProvider builds the provider on a shared Session.
func NewPatenteChileProvider(session *Session) *PatenteChileProvider {
	return &PatenteChileProvider{session: session}
}

// Name implements vehicle.Provider.
func (p *PatenteChileProvider) Name() string { return "patentechile" }

// LookupPlate implements vehicle.Provider.
func (p *PatenteChileProvider) LookupPlate(ctx context.Context, plate string) (vehicle.Lookup, error) {
	page, err := p.session.openPage(ctx, patenteChileHome)
	if err != nil {
		return vehicle.Lookup{}, err
	}
	defer page.Close()

	if err := p.submitSearch(page, plate); err != nil {
		return vehicle.Lookup{}, err
	}
	p.session.settle(ctx)

	rows, err := readResultRows(page)
	if err != nil {
		return vehicle.Lookup{}, err
	}

	return parsePlateTable(rows, plate), nil
}

func (p *PatenteChileProvider) submitSearch(page *rod.Page, plate string) error {
	input, err := page.Element("#inputTerm")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderParseError, "find search input")
	}
	if err := input.Input(plate); err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderUnavailable, "type plate")
	}

	btn, err := page.Element("#searchBtn")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderParseError, "find search button")
	}
	// Click through JS; the page stacks ad overlays over the button.
	if _, err := btn.Eval("() => this.click()"); err != nil {
		return errors.Wrap(err, errors.ErrCodeProviderUnavailable, "click search")
	}
	return nil
}

// tableRow is one <tr> of the results table, reduced to what the parser
// needs.
type tableRow struct {
	Cells         []string
	SectionHeader bool
}

func readResultRows(page *rod.Page) ([]tableRow, error) {
	trs, err := page.Elements("#tbl-results tr")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeProviderParseError, "find results table")
	}
	if len(trs) == 0 {
		return nil, errors.New(errors.ErrCodeProviderParseError, "results table not present")
	}

	rows := make([]tableRow, 0, len(trs))
	for _, tr := range trs {
		tds, err := tr.Elements("td")
		if err != nil || len(tds) == 0 {
			continue
		}

		row := tableRow{}
		for _, td := range tds {
			text, err := td.Text()
			if err != nil {
				text = ""
			}
			row.Cells = append(row.Cells, text)
		}
		if len(tds) == 1 {
			if colspan, err := tds[0].Attribute("colspan"); err == nil && colspan != nil && *colspan == "2" {
				row.SectionHeader = true
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// parsePlateTable walks the label/value rows of the results table.  The
// table interleaves a vehicle section and a circulation-permit section; the
// year is only trusted inside the former, the permit section carries payment
// years.
func parsePlateTable(rows []tableRow, plate string) vehicle.Lookup {
	rec := vehicle.Record{Plate: plate}
	inVehicleSection := false

	for _, row := range rows {
		if row.SectionHeader {
			header := strings.ToLower(strings.TrimSpace(row.Cells[0]))
			inVehicleSection = strings.Contains(header, "vehicular")
			continue
		}
		if len(row.Cells) != 2 {
			continue
		}

		label := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(row.Cells[0]), " ", ""))
		value := strings.TrimSpace(row.Cells[1])
		if value == "" {
			continue
		}

		switch {
		case strings.Contains(label, "marca"):
			rec.Make = value
		case strings.Contains(label, "modelo"):
			rec.Model = value
		case strings.Contains(label, "año") && inVehicleSection:
			if y := yearTagPattern.FindString(value); y != "" {
				rec.Year = y
			}
		case strings.Contains(label, "nombre"):
			rec.OwnerName = value
		case strings.Contains(label, "rut"):
			rec.OwnerRUT = value
		}
	}

	if rec.Make == "" && rec.Model == "" && rec.Year == "" {
		return vehicle.Lookup{
			Found:  false,
			Reason: fmt.Sprintf("Patente %s sin datos en patentechile.com", plate),
		}
	}
	return vehicle.Lookup{Found: true, Vehicle: &rec, Source: "patentechile"}
}
