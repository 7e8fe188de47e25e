package report

import "strings"

// Producer identifies which damage meter emitted a report headline.
type Producer string

const (
	ProducerRecount Producer = "recount"
	ProducerSkada   Producer = "skada"
)

type headlineRule struct {
	prefix   string
	producer Producer
}

// Each known meter announces a report with a fixed literal prefix on the
// first line. Rules are checked in order; the first match wins.
var headlineRules = []headlineRule{
	{prefix: "Recount - ", producer: ProducerRecount},
	{prefix: "Skada: ", producer: ProducerSkada},
}

// Classify reports whether line is the headline of a known report format.
func Classify(line string) (Producer, bool) {
	for _, rule := range headlineRules {
		if strings.HasPrefix(line, rule.prefix) {
			return rule.producer, true
		}
	}
	return "", false
}
