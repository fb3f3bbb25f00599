// Package validate implements the per-row schedule record validator.
//
// Validation is fail-fast: the first failing rule alone determines the
// reported reason, one reason per row.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/timefmt"
)

var (
	flightIDRule = validation.Match(regexp.MustCompile(`^[A-Za-z0-9]{2,8}$`)).
			Error("flight_id must be 2-8 alphanumeric characters")
	originRule = validation.Match(regexp.MustCompile(`^[A-Z]{3}$`)).
			Error("origin must be 3 uppercase letters")
	destinationRule = validation.Match(regexp.MustCompile(`^[A-Z]{3}$`)).
			Error("destination must be 3 uppercase letters")
)

// Record validates one raw row and, on acceptance, produces the canonical
// record: identity fields trimmed, datetimes re-rendered through the
// canonical layout, price parsed, non-empty extra columns passed through.
// It is a pure function of the row.
func Record(row models.RawRow) (*models.Flight, error) {
	for _, name := range models.RequiredFields {
		v, ok := row.Get(name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("missing required field '%s'", name)
		}
	}

	fid := trimmed(row, models.FieldFlightID)
	if err := validation.Validate(fid, flightIDRule); err != nil {
		return nil, err
	}

	origin := trimmed(row, models.FieldOrigin)
	if err := validation.Validate(origin, originRule); err != nil {
		return nil, err
	}
	dest := trimmed(row, models.FieldDestination)
	if err := validation.Validate(dest, destinationRule); err != nil {
		return nil, err
	}

	depRaw, _ := row.Get(models.FieldDeparture)
	dep, err := timefmt.Parse(depRaw)
	if err != nil {
		return nil, fmt.Errorf("%s parse error: %v", models.FieldDeparture, err)
	}
	arrRaw, _ := row.Get(models.FieldArrival)
	arr, err := timefmt.Parse(arrRaw)
	if err != nil {
		return nil, fmt.Errorf("%s parse error: %v", models.FieldArrival, err)
	}

	if !arr.After(dep) {
		return nil, errors.New("arrival_datetime must be after departure_datetime")
	}

	price, err := strconv.ParseFloat(trimmed(row, models.FieldPrice), 64)
	if err != nil {
		return nil, errors.New("price must be a positive float")
	}
	if !(price > 0) {
		return nil, errors.New("price must be a positive number")
	}

	flight := &models.Flight{
		FlightID:    fid,
		Origin:      origin,
		Destination: dest,
		Departure:   timefmt.Format(dep),
		Arrival:     timefmt.Format(arr),
		Price:       price,
	}

	for _, name := range row.Fields() {
		if models.IsCanonical(name) {
			continue
		}
		v, _ := row.Get(name)
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if flight.Extra == nil {
			flight.Extra = make(map[string]string)
		}
		flight.Extra[name] = v
	}

	return flight, nil
}

func trimmed(row models.RawRow, name string) string {
	v, _ := row.Get(name)
	return strings.TrimSpace(v)
}
