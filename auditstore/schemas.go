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

package auditstore

// findingSchemas holds the json schemas the store validates inserted
// elements against, keyed by element type. Elements with unknown types are
// accepted without validation.
var findingSchemas = map[string]string{ // nolint:gochecknoglobals
	"account-finding": `{
		"$id": "fsaudit:account-finding",
		"type": "object",
		"required": ["id", "type", "kind", "usernames"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "account-finding"},
			"kind": {
				"enum": [
					"duplicate-uid",
					"duplicate-gid",
					"suspicious-uid0",
					"unexpected-interactive-shell",
					"non-standard-home"
				]
			},
			"usernames": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 1
			},
			"detail": {"type": "string"}
		}
	}`,
	"timestamp-finding": `{
		"$id": "fsaudit:timestamp-finding",
		"type": "object",
		"required": ["id", "type", "path", "mtime", "category"],
		"properties": {
			"id": {"type": "string"},
			"type": {"const": "timestamp-finding"},
			"path": {"type": "string"},
			"mtime": {"type": "string"},
			"days_since_modification": {"type": "integer"},
			"flags": {
				"type": "array",
				"items": {"enum": ["modified-today", "future-timestamp"]}
			},
			"category": {"type": "string"}
		}
	}`,
}
