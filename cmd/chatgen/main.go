// chatgen emits a synthetic chat stream with damage-meter report spam
// mixed into ordinary chatter, in the wire shape the filter reads:
// "[channel] sender: text". Pipe it into the filter with --command chatgen.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"
)

var chatter = []string{
	"ready check in 2 min",
	"anyone need a summon?",
	"gz",
	"nice pull",
	"whelps left side, handle it",
	"mana break after this one",
	"who keeps pulling aggro?",
}

var senders = []string{"Abra", "Bora", "Cora", "Dorn", "Eryx", "Fela"}

var actors = []string{"Abra", "Bora", "Cora", "Dorn", "Eryx", "Fela", "Gruk", "Hale"}

var channels = []string{"party", "raid", "guild"}

var headlines = []string{
	"Recount - Damage Done",
	"Recount - Healing Done",
	"Recount - DPS",
	"Skada: Damage for current fight",
	"Skada: Healing for current fight",
}

func main() {
	lines := flag.Int("lines", 200, "total lines to emit (0 = forever)")
	interval := flag.Duration("interval", 300*time.Millisecond, "delay between lines")
	reportEvery := flag.Int("report-every", 12, "average chatter lines between reports")
	seed := flag.Int64("seed", 0, "rng seed (0 = time-based)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	emitted := 0
	for *lines == 0 || emitted < *lines {
		if rng.Intn(*reportEvery) == 0 {
			emitted += emitReport(rng, *interval)
			continue
		}
		channel := channels[rng.Intn(len(channels))]
		sender := senders[rng.Intn(len(senders))]
		fmt.Printf("[%s] %s: %s\n", channel, sender, chatter[rng.Intn(len(chatter))])
		emitted++
		time.Sleep(*interval)
	}
}

func emitReport(rng *rand.Rand, interval time.Duration) int {
	channel := channels[rng.Intn(len(channels))]
	sender := senders[rng.Intn(len(senders))]
	fmt.Printf("[%s] %s: %s\n", channel, sender, headlines[rng.Intn(len(headlines))])
	time.Sleep(interval)

	count := 3 + rng.Intn(len(actors)-3)
	perm := rng.Perm(len(actors))
	value := 5000 + rng.Intn(20000)
	for i := 0; i < count; i++ {
		fmt.Printf("[%s] %s: %d. %s   %d\n", channel, sender, i+1, actors[perm[i]], value)
		value -= rng.Intn(value/2 + 1)
		time.Sleep(interval)
	}
	return count + 1
}
