// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wire

import (
	"fmt"
	"sort"

	"github.com/luxfi/math/set"
)

// WmvbaTag is the single-byte discriminant prefixing every WMVBA
// message variant on the wire.
type WmvbaTag byte

const (
	TagProposal             WmvbaTag = 0
	TagVoteNone              WmvbaTag = 1
	TagVoteSome              WmvbaTag = 2
	TagAbbaInputUnjustified  WmvbaTag = 3
	TagAbbaInputJustified    WmvbaTag = 4
	TagCssSeenNotSaw         WmvbaTag = 5
	TagCssSeenSaw            WmvbaTag = 6
	TagCssDoneReporting      WmvbaTag = 7
	TagAreWeDoneNo           WmvbaTag = 8
	TagAreWeDoneYes          WmvbaTag = 9
	TagWitnessCreator        WmvbaTag = 10
)

// WmvbaMessage is the sum type over the eleven WMVBA variants in the
// §4.1 table. Each concrete type below implements it.
type WmvbaMessage interface {
	wmvbaTag() WmvbaTag
}

// Proposal carries a proposed block hash (tag 0).
type Proposal struct {
	Value BlockHash
}

func (Proposal) wmvbaTag() WmvbaTag { return TagProposal }

// Vote carries an optional block hash (tags 1, 2). A nil Value encodes
// Vote(None); a non-nil Value encodes Vote(Some(val)).
type Vote struct {
	Value *BlockHash
}

func (v Vote) wmvbaTag() WmvbaTag {
	if v.Value == nil {
		return TagVoteNone
	}
	return TagVoteSome
}

// AbbaInput carries an ABBA round input (tags 3, 4).
//
// Open question (spec.md §9): the reference implementation's own source
// comment doubts whether the boolean maps to "justified" or its
// negation. We preserve the documented mapping — tag 4 is justified=true
// — and pin it with a compatibility test (wmvba_test.go) rather than
// guess past it.
type AbbaInput struct {
	Justified bool
	Phase     Phase
	Ticket    Ticket
}

func (a AbbaInput) wmvbaTag() WmvbaTag {
	if a.Justified {
		return TagAbbaInputJustified
	}
	return TagAbbaInputUnjustified
}

// CssSeen carries a Common-Subset-Seen report for one party (tags 5, 6).
type CssSeen struct {
	Saw   bool
	Phase Phase
	Party Party
}

func (c CssSeen) wmvbaTag() WmvbaTag {
	if c.Saw {
		return TagCssSeenSaw
	}
	return TagCssSeenNotSaw
}

// CssDoneReporting carries the two party sets CSS exchanges once a
// party has finished reporting (tag 7). NotSeen/Seen are sets, not
// sequences - membership is all that matters, and a party appears in
// at most one of the two.
type CssDoneReporting struct {
	Phase   Phase
	NotSeen set.Set[Party]
	Seen    set.Set[Party]
}

func (CssDoneReporting) wmvbaTag() WmvbaTag { return TagCssDoneReporting }

// AreWeDone carries the ABBA termination poll (tags 8, 9).
type AreWeDone struct {
	Done bool
}

func (a AreWeDone) wmvbaTag() WmvbaTag {
	if a.Done {
		return TagAreWeDoneYes
	}
	return TagAreWeDoneNo
}

// WitnessCreator carries the hash of the block that created the
// finalization witness (tag 10).
type WitnessCreator struct {
	Value BlockHash
}

func (WitnessCreator) wmvbaTag() WmvbaTag { return TagWitnessCreator }

// EncodeWmvbaMessage renders m as tag ‖ payload.
func EncodeWmvbaMessage(m WmvbaMessage) []byte {
	p := NewPacker(1 + 32)
	tag := m.wmvbaTag()
	p.PackByte(byte(tag))

	switch v := m.(type) {
	case Proposal:
		encodeBlockHash(p, v.Value)
	case Vote:
		if v.Value != nil {
			encodeBlockHash(p, *v.Value)
		}
	case AbbaInput:
		p.PackUint32(uint32(v.Phase))
		encodeTicket(p, v.Ticket)
	case CssSeen:
		p.PackUint32(uint32(v.Phase))
		p.PackUint32(uint32(v.Party))
	case CssDoneReporting:
		p.PackUint32(uint32(v.Phase))
		encodePartySet(p, v.NotSeen)
		encodePartySet(p, v.Seen)
	case AreWeDone:
		// no payload
	case WitnessCreator:
		encodeBlockHash(p, v.Value)
	default:
		panic(fmt.Sprintf("wire: unknown WmvbaMessage implementation %T", m))
	}
	return p.Bytes
}

// DecodeWmvbaMessage parses a complete tag‖payload datagram. Any
// unconsumed trailing byte is rejected (round-trip property).
func DecodeWmvbaMessage(b []byte) (WmvbaMessage, error) {
	u := NewUnpacker(b)
	tag := WmvbaTag(u.UnpackByte())

	var msg WmvbaMessage
	switch tag {
	case TagProposal:
		msg = Proposal{Value: decodeBlockHash(u)}
	case TagVoteNone:
		msg = Vote{Value: nil}
	case TagVoteSome:
		h := decodeBlockHash(u)
		msg = Vote{Value: &h}
	case TagAbbaInputUnjustified, TagAbbaInputJustified:
		phase := Phase(u.UnpackUint32())
		ticket := decodeTicket(u)
		msg = AbbaInput{Justified: tag == TagAbbaInputJustified, Phase: phase, Ticket: ticket}
	case TagCssSeenNotSaw, TagCssSeenSaw:
		phase := Phase(u.UnpackUint32())
		party := Party(u.UnpackUint32())
		msg = CssSeen{Saw: tag == TagCssSeenSaw, Phase: phase, Party: party}
	case TagCssDoneReporting:
		phase := Phase(u.UnpackUint32())
		notSeen := decodePartySet(u)
		seen := decodePartySet(u)
		msg = CssDoneReporting{Phase: phase, NotSeen: notSeen, Seen: seen}
	case TagAreWeDoneNo, TagAreWeDoneYes:
		msg = AreWeDone{Done: tag == TagAreWeDoneYes}
	case TagWitnessCreator:
		msg = WitnessCreator{Value: decodeBlockHash(u)}
	default:
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedVariant, tag)
	}

	if err := u.Finish(); err != nil {
		return nil, err
	}
	return msg, nil
}

// encodePartySet writes s as a length-prefixed list of party indices in
// ascending order, so two sets with identical membership always
// produce identical bytes regardless of map iteration order.
func encodePartySet(p *Packer, s set.Set[Party]) {
	list := s.List()
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	p.PackUint64(uint64(len(list)))
	for _, party := range list {
		p.PackUint32(uint32(party))
	}
}

func decodePartySet(u *Unpacker) set.Set[Party] {
	n := u.UnpackUint64()
	if u.Err != nil {
		return nil
	}
	s := set.NewSet[Party](int(n))
	for i := uint64(0); i < n; i++ {
		s.Add(Party(u.UnpackUint32()))
	}
	return s
}
