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

// ManifestEntry pairs a path below the image root with a human readable
// category label. RelPath may contain glob patterns (e.g. "etc/cron*"),
// which are expanded before walking.
type ManifestEntry struct {
	RelPath  string
	Category string
}

// DefaultManifest returns the persistence relevant locations scanned when
// no custom manifest is configured.
func DefaultManifest() []ManifestEntry {
	return []ManifestEntry{
		{"etc/cron.d", "Cron drop-in directory"},
		{"etc/cron.daily", "Daily cron scripts"},
		{"etc/cron.hourly", "Hourly cron scripts"},
		{"etc/cron.weekly", "Weekly cron scripts"},
		{"etc/cron.monthly", "Monthly cron scripts"},
		{"etc/crontab", "System crontab"},
		{"var/spool/cron", "User crontabs"},
		{"etc/init.d", "SysV init scripts"},
		{"etc/systemd/system", "Systemd units"},
		{"etc/rc.local", "rc.local script"},
		{"root/.ssh", "Root SSH directory"},
		{"root/.bashrc", "Root bashrc"},
		{"root/.bash_profile", "Root bash profile"},
		{"etc/passwd", "Account database"},
		{"etc/shadow", "Shadow password database"},
		{"etc/group", "Group database"},
		{"etc/sudoers", "Sudoers file"},
		{"etc/sudoers.d", "Sudoers drop-in directory"},
	}
}
