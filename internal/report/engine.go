package report

import "time"

// Channel tags the chat channel a line arrived on. The engine only filters
// channels it was registered for; lines on any other channel pass through
// untouched.
type Channel string

const (
	ChannelSay         Channel = "say"
	ChannelYell        Channel = "yell"
	ChannelParty       Channel = "party"
	ChannelPartyLeader Channel = "party_leader"
	ChannelRaid        Channel = "raid"
	ChannelRaidLeader  Channel = "raid_leader"
	ChannelGuild       Channel = "guild"
	ChannelOfficer     Channel = "officer"
	ChannelWhisper     Channel = "whisper"
)

// DefaultChannels lists every channel the filter watches out of the box.
func DefaultChannels() []Channel {
	return []Channel{
		ChannelSay, ChannelYell,
		ChannelParty, ChannelPartyLeader,
		ChannelRaid, ChannelRaidLeader,
		ChannelGuild, ChannelOfficer,
		ChannelWhisper,
	}
}

// DefaultGrace is how long after a headline the engine keeps accepting data
// lines before the tick sweep finalizes the report.
const DefaultGrace = time.Second

// DefaultRetain is the finalized-store bound the host applies when its
// config leaves retention unset; see Options.Retain.
const DefaultRetain = 200

// Options configures an Engine. A zero Grace, Policy, or Channels falls back
// to the defaults above. Retain is taken as given: positive bounds the
// finalized store, zero or negative keeps every finalized report.
type Options struct {
	Grace      time.Duration
	Retain     int
	Policy     ColorPolicy
	CategoryOf CategoryFunc
	Channels   []Channel
}

// Engine is the long-lived filter state: the tracker registry plus the
// elapsed-time clock the host advances through Tick. One engine serves one
// chat stream; tests create a fresh engine each.
type Engine struct {
	reg      *Registry
	elapsed  time.Duration
	grace    time.Duration
	policy   ColorPolicy
	category CategoryFunc
	channels map[Channel]bool
}

// LineResult is the filter verdict for one incoming line. Suppress drops the
// line from the visible stream; a non-nil Link means the line was a report
// headline and should be displayed as the clickable reference instead.
type LineResult struct {
	Suppress bool
	Link     *Link
}

func NewEngine(opts Options) *Engine {
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.Policy == "" {
		opts.Policy = PolicyClass
	}
	if len(opts.Channels) == 0 {
		opts.Channels = DefaultChannels()
	}
	channels := make(map[Channel]bool, len(opts.Channels))
	for _, ch := range opts.Channels {
		channels[ch] = true
	}
	return &Engine{
		reg:      NewRegistry(opts.Retain),
		grace:    opts.Grace,
		policy:   opts.Policy,
		category: opts.CategoryOf,
		channels: channels,
	}
}

// FilterLine is the per-line callback. For a sender with a report in
// progress it tries to capture the line; capture suppresses it. Otherwise a
// recognized headline starts a new report and is rewritten into a reference.
// Everything else passes through unchanged.
func (e *Engine) FilterLine(ch Channel, sender, text string) LineResult {
	if !e.channels[ch] {
		return LineResult{}
	}
	if e.reg.LookupActiveBySender(sender) != nil {
		return LineResult{Suppress: e.reg.AppendLine(sender, text)}
	}
	producer, ok := Classify(text)
	if !ok {
		return LineResult{}
	}
	t := e.reg.BeginReport(sender, text, producer, e.elapsed, e.grace)
	link := EncodeLink(t)
	return LineResult{Link: &link}
}

// Tick advances the engine clock and finalizes expired reports, returning
// the newly finalized trackers so the host can log them. The host calls it
// from its frame/tick loop with the time elapsed since the last call; the
// grace period is advisory, so slow ticks just delay finalization.
func (e *Engine) Tick(delta time.Duration) []*Tracker {
	e.elapsed += delta
	return e.reg.Sweep(e.elapsed)
}

// Resolve maps a decoded reference back to a tracker: the finalized store by
// id first, then the sender's still-active tracker as a fallback for clicks
// that land before the sweep. Returns nil when neither matches.
func (e *Engine) Resolve(ref LinkRef) *Tracker {
	if ref.HasID {
		if t := e.reg.LookupByID(ref.ID); t != nil {
			return t
		}
	}
	if ref.Sender != "" {
		return e.reg.LookupActiveBySender(ref.Sender)
	}
	return nil
}

// ActivateLink handles a clicked reference. Foreign payloads are handed to
// next (the handler that was installed before this filter) and reported as
// unhandled here. A payload of ours always succeeds, rendering an empty
// report when nothing resolves anymore.
func (e *Engine) ActivateLink(payload string, next func(string)) ([]Row, bool) {
	ref, ok := DecodeLink(payload)
	if !ok {
		if next != nil {
			next(payload)
		}
		return nil, false
	}
	return Render(e.Resolve(ref), e.policy, e.category), true
}

// SetPolicy swaps the row color policy for subsequent renders.
func (e *Engine) SetPolicy(policy ColorPolicy) {
	if policy == PolicyClass || policy == PolicyAlternate {
		e.policy = policy
	}
}

// Elapsed exposes the engine clock, mainly for the host's status line.
func (e *Engine) Elapsed() time.Duration { return e.elapsed }

// Registry exposes the underlying registry for the host's status line.
func (e *Engine) Registry() *Registry { return e.reg }
