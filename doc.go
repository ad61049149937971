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

// Package fsaudit inspects a mounted or extracted filesystem image for
// evidence of account tampering and persistence mechanism installation.
// All access to the image is read only.
//
// Two independent checks run against the image root:
//
// The account check parses the account database (etc/passwd) and flags
// structurally suspicious entries: additional uid 0 accounts, interactive
// shells on unexpected accounts, home directories outside the usual
// locations and duplicated uid or gid values.
//
// The timestamp check walks a manifest of persistence relevant locations
// (cron directories, init scripts, systemd units, root dotfiles, account
// databases) and records the modification metadata of every regular file
// found, flagging recent and future dated changes.
//
// Both checks produce structured findings; rendering and storage are left
// to callers. Findings can be persisted and queried with the auditstore
// subpackage.
package fsaudit
