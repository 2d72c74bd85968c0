package benchmark

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/frederickw082922/crosscheck/internal/model"
)

var privatePrefix = regexp.MustCompile(`^[Pp]rivate[-_]`)

// AuditLocation is a resolved audit repository path.
type AuditLocation struct {
	Path string
	// Note is non-empty when the path was found by name similarity rather
	// than the exact "-Audit" convention.
	Note string
}

// LocateAuditRepo finds the audit repository paired with a remediation
// checkout. Candidates are tried in order: the "<name>-Audit" sibling, the
// same after stripping a "Private-" prefix, then any sibling directory
// ending in "-Audit" whose name contains the benchmark's leading word.
// Without an audit repository no check can run, so a miss is an error, not
// a degraded result.
func LocateAuditRepo(remediationPath string) (AuditLocation, error) {
	abs, err := filepath.Abs(remediationPath)
	if err != nil {
		return AuditLocation{}, fmt.Errorf("resolve remediation path: %w", err)
	}
	base := filepath.Base(abs)
	parent := filepath.Dir(abs)

	candidates := []string{base + "-Audit"}
	stripped := privatePrefix.ReplaceAllString(base, "")
	if stripped != base {
		candidates = append(candidates, stripped+"-Audit")
	}
	for _, cand := range candidates {
		path := filepath.Join(parent, cand)
		if isDir(path) {
			return AuditLocation{Path: path}, nil
		}
	}

	root := strings.ToLower(stripped)
	if i := strings.Index(root, "-"); i > 0 {
		root = root[:i]
	}
	entries, err := os.ReadDir(parent)
	if err != nil {
		return AuditLocation{}, fmt.Errorf("list siblings of %s: %w", base, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == base {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, "-Audit") && strings.Contains(strings.ToLower(name), root) {
			return AuditLocation{
				Path: filepath.Join(parent, name),
				Note: fmt.Sprintf("audit repository %q matched by name similarity; pass an explicit path if this is wrong", name),
			}, nil
		}
	}

	return AuditLocation{}, fmt.Errorf("no audit repository found beside %s (tried %s and *-Audit siblings)", base, strings.Join(candidates, ", "))
}

var ruleIDFileName = regexp.MustCompile(`^([A-Z]+-\d+)-\d{6}\.yml$`)

// DetectRuleIDPrefix scans the audit repository's category directories for
// the first file named like a STIG rule key and returns its prefix part,
// e.g. "AZLX-23". Returns "" when no file matches; only the STIG family
// names audit files this way.
func DetectRuleIDPrefix(auditRoot string, f model.Family) string {
	dirPrefix := CategoryDirPrefix(f)
	entries, err := os.ReadDir(auditRoot)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), dirPrefix) {
			continue
		}
		found := ""
		root := filepath.Join(auditRoot, entry.Name())
		// WalkDir visits lexically, so the first hit is stable.
		walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if m := ruleIDFileName.FindStringSubmatch(d.Name()); m != nil {
				found = m[1]
				return fs.SkipAll
			}
			return nil
		})
		if walkErr == nil && found != "" {
			return found
		}
	}
	return ""
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
