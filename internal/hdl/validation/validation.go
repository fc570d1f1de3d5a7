package validation

import (
	"strconv"
	"strings"
)

// Position parses a 1-based shop position. Range checking belongs to the
// ledger; only the argument shape is validated here.
func Position(args []string) (int, error) {
	if len(args) < 1 {
		return 0, PositionIsRequired
	}
	pos, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, PositionIsInvalid
	}
	return pos, nil
}

// Target parses a user reference: either a raw id or a mention of the form
// <@id> / <@!id>.
func Target(args []string) (string, error) {
	if len(args) < 1 {
		return "", TargetIsRequired
	}

	id := args[0]
	if strings.HasPrefix(id, "<@") && strings.HasSuffix(id, ">") {
		id = strings.TrimSuffix(strings.TrimPrefix(id, "<@"), ">")
		id = strings.TrimPrefix(id, "!")
	}
	if id == "" {
		return "", TargetIsInvalid
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", TargetIsInvalid
		}
	}
	return id, nil
}

func Amount(args []string) (int, error) {
	if len(args) < 2 {
		return 0, AmountIsRequired
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, AmountIsInvalid
	}
	return amount, nil
}

// ItemPayload splits an add-item payload into price, name and description.
// The raw text after the price must contain the literal " | " separator.
func ItemPayload(args []string, raw string) (int, string, string, error) {
	if len(args) < 2 {
		return 0, "", "", MalformedItemPayload
	}

	price, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, "", "", PriceIsInvalid
	}

	rest := strings.TrimSpace(strings.TrimPrefix(raw, args[0]))
	name, description, found := strings.Cut(rest, " | ")
	if !found {
		return 0, "", "", MalformedItemPayload
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if name == "" || description == "" {
		return 0, "", "", MalformedItemPayload
	}
	return price, name, description, nil
}
