package mdstat

import (
	"fmt"
	"strings"
)

const (
	personalitiesMarker = "Personalities :"
	unusedDevicesMarker = "unused devices:"
)

type parseState int

const (
	stateExpectPersonalities parseState = iota
	stateExpectBlockStart
	stateParsingHeader
	stateParsingConfig
	stateParsingMetadata
	stateDone
)

// metadataKeys are matched anywhere in a line; resync and recovery lines
// start with a progress bar.
var metadataKeys = []struct {
	key   string
	store func(*RaidArray, string)
}{
	{"recovery =", func(a *RaidArray, v string) { a.Recovery = v }},
	{"resync =", func(a *RaidArray, v string) { a.Resync = v }},
	{"check =", func(a *RaidArray, v string) { a.CheckArray = v }},
	{"bitmap:", func(a *RaidArray, v string) { a.Bitmap = v }},
}

type parser struct {
	lines []string
	pos   int
	sink  Sink
	snap  Snapshot
}

// Parse builds a Snapshot from the raw status text. It never fails; every
// deviation from the expected layout is reported to sink (which may be nil)
// and parsing continues with the next line.
func Parse(text string, sink Sink) Snapshot {
	p := &parser{
		lines: Normalize(text),
		sink:  sinkOrDiscard(sink),
	}
	if len(p.lines) == 0 {
		p.sink.Report(Diagnostic{Severity: SeverityInfo, Message: "source empty"})
		return Snapshot{}
	}

	state := stateExpectPersonalities
	for state != stateDone {
		state = p.step(state)
	}
	return p.snap
}

func (p *parser) step(state parseState) parseState {
	switch state {
	case stateExpectPersonalities:
		return p.personalities()
	case stateExpectBlockStart:
		return p.blockStart()
	case stateParsingHeader:
		return p.header()
	case stateParsingConfig:
		return p.config()
	case stateParsingMetadata:
		return p.metadata()
	default:
		return stateDone
	}
}

func (p *parser) personalities() parseState {
	rest, ok := strings.CutPrefix(p.lines[0], personalitiesMarker)
	if !ok {
		p.warnf("missing %q line", personalitiesMarker)
		return stateExpectBlockStart
	}
	p.snap.Personalities = strings.TrimSpace(rest)
	p.pos++
	return stateExpectBlockStart
}

func (p *parser) blockStart() parseState {
	if p.pos >= len(p.lines) {
		return stateDone
	}

	line := p.lines[p.pos]
	switch Classify(line) {
	case ArrayHeader:
		return stateParsingHeader
	case UnusedDevicesTrailer:
		if rest, ok := strings.CutPrefix(line, unusedDevicesMarker); ok {
			p.snap.UnusedDevices = strings.TrimSpace(rest)
		} else {
			p.warnf("malformed unused devices line %q", line)
		}
	default:
		p.warnf("unrecognized line %q", line)
	}
	p.pos++
	return stateExpectBlockStart
}

func (p *parser) header() parseState {
	line := p.lines[p.pos]
	p.pos++

	name, rest, ok := strings.Cut(line, ":")
	if !ok {
		p.warnAt(p.pos, "array header %q has no colon", line)
		return stateExpectBlockStart
	}

	array := RaidArray{Name: strings.TrimSpace(name)}
	tokens := strings.Fields(rest)
	if len(tokens) < 2 {
		p.warnAt(p.pos, "array %s: header has %d tokens, want status and level", array.Name, len(tokens))
	} else {
		array.Status = tokens[0]
		array.RaidLevel = tokens[1]
		array.MemberTokens = tokens[2:]
	}
	p.snap.Arrays = append(p.snap.Arrays, array)
	return stateParsingConfig
}

func (p *parser) config() parseState {
	array := p.current()
	if p.pos >= len(p.lines) {
		p.warnf("array %s: missing configuration line", array.Name)
		return stateDone
	}

	line := p.lines[p.pos]
	p.pos++

	tokens := strings.Fields(line)
	if len(tokens) < 4 {
		p.warnAt(p.pos, "array %s: configuration line has %d tokens, want at least 4", array.Name, len(tokens))
		return stateParsingMetadata
	}

	n := len(tokens)
	array.UsableSize = tokens[0] + " " + tokens[1]
	var other strings.Builder
	for _, t := range tokens[2 : n-2] {
		other.WriteString(" ")
		other.WriteString(t)
	}
	array.OtherSettings = other.String()
	array.HealthyDrivesRatio = unbracket(tokens[n-2])
	array.DriveStatusBitmap = tokens[n-1]
	return stateParsingMetadata
}

func (p *parser) metadata() parseState {
	if p.pos >= len(p.lines) {
		return stateDone
	}

	line := p.lines[p.pos]
	for _, m := range metadataKeys {
		if i := strings.Index(line, m.key); i >= 0 {
			m.store(p.current(), strings.TrimSpace(line[i+len(m.key):]))
			p.pos++
			return stateParsingMetadata
		}
	}
	return stateExpectBlockStart
}

// unbracket turns "[2/2]" into "2/2"; other text is returned unchanged.
func unbracket(s string) string {
	if len(s) >= 2 && s[0] == '[' && s[len(s)-1] == ']' {
		return s[1 : len(s)-1]
	}
	return s
}

// current is the array opened by the last header.
func (p *parser) current() *RaidArray {
	return &p.snap.Arrays[len(p.snap.Arrays)-1]
}

func (p *parser) warnf(format string, args ...any) {
	line := 0
	if p.pos < len(p.lines) {
		line = p.pos + 1
	}
	p.warnAt(line, format, args...)
}

func (p *parser) warnAt(line int, format string, args ...any) {
	p.sink.Report(Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	})
}
