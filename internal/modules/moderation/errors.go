package moderation

import "errors"

var ErrEmptySelection = errors.New("no packages selected")
