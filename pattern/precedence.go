// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pattern

// Precedence is a positional number: segment i contributes digit/10^i.
//
// Inbound digits (lower is more specific):
//
//	1 literal, 2 complex segment, 3 constrained parameter, 4 parameter, 5 catch-all
//
// Outbound digits (higher is more specific):
//
//	5 literal, 4 complex segment, 3 constrained parameter, 2 parameter, 1 catch-all

func computeInbound(p *Pattern) float64 {
	var total, scale float64 = 0, 1
	for _, seg := range p.segments {
		total += float64(inboundDigit(p, seg)) * scale
		scale /= 10
	}
	return total
}

func computeOutbound(p *Pattern) float64 {
	var total, scale float64 = 0, 1
	for _, seg := range p.segments {
		total += float64(outboundDigit(p, seg)) * scale
		scale /= 10
	}
	return total
}

func inboundDigit(p *Pattern, seg Segment) int {
	if !seg.IsSimple() {
		return 2
	}
	part := seg.Parts[0]
	if part.Kind == PartLiteral {
		return 1
	}
	prm, _ := p.Parameter(part.Content)
	switch {
	case prm.CatchAll:
		return 5
	case len(prm.Policies) > 0:
		return 3
	default:
		return 4
	}
}

func outboundDigit(p *Pattern, seg Segment) int {
	if !seg.IsSimple() {
		return 4
	}
	part := seg.Parts[0]
	if part.Kind == PartLiteral {
		return 5
	}
	prm, _ := p.Parameter(part.Content)
	switch {
	case prm.CatchAll:
		return 1
	case len(prm.Policies) > 0:
		return 3
	default:
		return 2
	}
}
