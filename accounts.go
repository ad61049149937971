// Copyright (c) 2020 Siemens AG
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
//
// Author(s): Jonas Plum

package fsaudit

import (
	"strconv"
	"strings"
)

// superuserName is the canonical uid 0 account. It is exempted from the
// suspicious uid 0 rule unless Options.FlagAllUID0 is set.
const superuserName = "root"

var interactiveShells = []string{"bash", "sh"} // nolint:gochecknoglobals

var shellAllowPrefixes = []string{"root", "admin", "user"} // nolint:gochecknoglobals

type accountRule struct {
	kind  AccountFindingKind
	check func(record AccountRecord, opts Options) (detail string, flagged bool)
}

// accountRules are evaluated independently per record. No rule short
// circuits another, so one record can emit findings under several rules.
var accountRules = []accountRule{ // nolint:gochecknoglobals
	{
		kind: SuspiciousUID0,
		check: func(record AccountRecord, opts Options) (string, bool) {
			if record.UID != 0 {
				return "", false
			}
			if !opts.FlagAllUID0 && record.Username == superuserName {
				return "", false
			}
			return "uid 0", true
		},
	},
	{
		kind: UnexpectedInteractiveShell,
		check: func(record AccountRecord, opts Options) (string, bool) {
			if !isInteractiveShell(record.Shell) || hasAllowedPrefix(record.Username) {
				return "", false
			}
			return record.Shell, true
		},
	},
	{
		kind: NonStandardHome,
		check: func(record AccountRecord, opts Options) (string, bool) {
			if strings.HasPrefix(record.Home, "/home/") || record.Home == "/root" {
				return "", false
			}
			return record.Home, true
		},
	},
}

// CheckAccounts evaluates all account anomaly rules over the full record
// set and returns the collected findings.
func CheckAccounts(records []AccountRecord, opts Options) []AccountFinding {
	var findings []AccountFinding
	for _, record := range records {
		for _, rule := range accountRules {
			detail, flagged := rule.check(record, opts)
			if !flagged {
				continue
			}
			findings = append(findings, AccountFinding{
				ID:        NewFindingID(TypeAccountFinding),
				Type:      TypeAccountFinding,
				Kind:      rule.kind,
				Usernames: []string{record.Username},
				Detail:    detail,
			})
		}
	}

	findings = append(findings, duplicateFindings(records, DuplicateUID, func(r AccountRecord) int { return r.UID })...)
	findings = append(findings, duplicateFindings(records, DuplicateGID, func(r AccountRecord) int { return r.GID })...)
	return findings
}

// duplicateFindings emits one finding per id value shared by two or more
// records, listing the implicated usernames in database order.
func duplicateFindings(records []AccountRecord, kind AccountFindingKind, key func(AccountRecord) int) []AccountFinding {
	groups := map[int][]string{}
	var order []int
	for _, record := range records {
		k := key(record)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], record.Username)
	}

	var findings []AccountFinding
	for _, k := range order {
		usernames := groups[k]
		if len(usernames) < 2 {
			continue
		}
		findings = append(findings, AccountFinding{
			ID:        NewFindingID(TypeAccountFinding),
			Type:      TypeAccountFinding,
			Kind:      kind,
			Usernames: usernames,
			Detail:    strconv.Itoa(k),
		})
	}
	return findings
}

// isInteractiveShell uses substring matching, so variants like /bin/zsh or
// a relocated /opt/bin/bash are caught as well.
func isInteractiveShell(shell string) bool {
	for _, name := range interactiveShells {
		if strings.Contains(shell, name) {
			return true
		}
	}
	return false
}

func hasAllowedPrefix(username string) bool {
	for _, prefix := range shellAllowPrefixes {
		if strings.HasPrefix(username, prefix) {
			return true
		}
	}
	return false
}
