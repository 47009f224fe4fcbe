package inline_test

import "regexp"

var mentionPattern = regexp.MustCompile(`\A@([a-z]+)`)
