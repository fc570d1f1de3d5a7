package validation

import "errors"

var PositionIsRequired = errors.New("item id is required")
var PositionIsInvalid = errors.New("item id must be a number")

var TargetIsRequired = errors.New("target user is required")
var TargetIsInvalid = errors.New("target user must be a mention or an id")

var AmountIsRequired = errors.New("amount is required")
var AmountIsInvalid = errors.New("amount must be a number")

var PriceIsInvalid = errors.New("price must be a number")

var MalformedItemPayload = errors.New("use: <price> <name> | <description>")
