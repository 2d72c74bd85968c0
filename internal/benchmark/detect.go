package benchmark

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/frederickw082922/crosscheck/internal/model"
)

// MinPrefixVotes is the smallest winning vote count the prefix vote is
// trusted with. Below it the caller must configure the prefix explicitly.
const MinPrefixVotes = 3

// maxPrefixSegments bounds candidate prefixes in the vote. Real prefixes
// are one segment ("rhel9cis"); longer candidates exist only so nested
// shapes like "<prefix>_rule" lose to the segment every name shares.
const maxPrefixSegments = 3

var topLevelName = regexp.MustCompile(`^(\w+)\s*:`)

// TopLevelNames returns every unindented "name:" key in declaration-file
// lines, in file order.
func TopLevelNames(lines []string) []string {
	var names []string
	for _, line := range lines {
		if m := topLevelName.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// PrefixVote is the outcome of the prefix majority vote.
type PrefixVote struct {
	Prefix string
	// Votes is how many candidate contributions the winner collected.
	Votes int
	// Note is non-empty when the vote was ambiguous between unrelated
	// prefixes and a deterministic tie-break decided it.
	Note string
}

// DetectPrefix infers the benchmark variable prefix from top-level variable
// names. Every name votes for each of its leading underscore-joined
// segments (up to three); the most frequent candidate wins. Ties break to
// the shorter, then lexicographically smaller candidate, so detection is
// stable across runs. A winner below MinPrefixVotes is rejected: the caller
// must be told to configure the prefix instead of trusting a handful of
// irregular names.
func DetectPrefix(names []string) (PrefixVote, error) {
	counts := make(map[string]int)
	for _, name := range names {
		parts := strings.Split(name, "_")
		for i := 1; i < len(parts) && i <= maxPrefixSegments; i++ {
			counts[strings.Join(parts[:i], "_")]++
		}
	}
	if len(counts) == 0 {
		return PrefixVote{}, fmt.Errorf("no prefix candidates among %d variable names; configure the prefix explicitly", len(names))
	}

	candidates := make([]string, 0, len(counts))
	for c := range counts {
		candidates = append(candidates, c)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		as, bs := strings.Count(a, "_"), strings.Count(b, "_")
		if as != bs {
			return as < bs
		}
		return a < b
	})

	vote := PrefixVote{Prefix: candidates[0], Votes: counts[candidates[0]]}
	if vote.Votes < MinPrefixVotes {
		return vote, fmt.Errorf("prefix vote too weak: %q won with %d vote(s), need %d; configure the prefix explicitly", vote.Prefix, vote.Votes, MinPrefixVotes)
	}

	// A nested runner-up like "<winner>_rule" always ties the winner on
	// repos where every variable is a toggle; only unrelated candidates
	// make the vote genuinely ambiguous.
	for _, c := range candidates[1:] {
		if counts[c] < vote.Votes {
			break
		}
		if !strings.HasPrefix(c, vote.Prefix+"_") {
			vote.Note = fmt.Sprintf("prefix vote tied between %q and %q (%d votes each); chose %q", vote.Prefix, c, vote.Votes, vote.Prefix)
			break
		}
	}
	return vote, nil
}

// FamilyVote is the outcome of the benchmark family vote.
type FamilyVote struct {
	Family model.Family
	CIS    int
	STIG   int
	// Note is non-empty when the counts tied and the documented default
	// decided the family.
	Note string
}

var (
	cisShape  = regexp.MustCompile(`^_rule_\d`)
	stigShape = regexp.MustCompile(`^_\d{6}$`)
)

// DetectFamily classifies the benchmark family by counting variable names
// in the CIS dotted-rule shape against names in the STIG six-digit shape.
// The higher count wins; a tie defaults to CIS. Callers surface Note so the
// default can be overridden explicitly.
func DetectFamily(names []string, prefix string) FamilyVote {
	var vote FamilyVote
	for _, name := range names {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}
		switch {
		case cisShape.MatchString(rest):
			vote.CIS++
		case stigShape.MatchString(rest):
			vote.STIG++
		}
	}
	if vote.STIG > vote.CIS {
		vote.Family = model.FamilySTIG
		return vote
	}
	vote.Family = model.FamilyCIS
	if vote.STIG == vote.CIS {
		vote.Note = fmt.Sprintf("benchmark type vote tied (cis %d, stig %d); defaulting to cis", vote.CIS, vote.STIG)
	}
	return vote
}
