package patterns

import "github.com/gzhole/termshield/internal/risk"

var no = false

// Argument shapes that name the whole system or a home directory root.
// Literal "*" is escaped so "/\*" matches an unexpanded "rm -rf /*" and
// nothing else.
var rootTargets = []string{
	"/", `/\*`,
	"~", `~/\*`, "$HOME", `$HOME/\*`,
	"/{bin,boot,dev,etc,home,lib,lib32,lib64,opt,proc,root,sbin,srv,sys,usr,var}",
	"/{Applications,Library,System,Users,Volumes,private}",
	"/home/*", "/Users/*",
}

const (
	// whole disks, not partitions
	wholeDisk = `/dev/(sd[a-z]+|hd[a-z]+|vd[a-z]+|xvd[a-z]+|nvme[0-9]+n[0-9]+|mmcblk[0-9]+|r?disk[0-9]+)`
	// any block device node
	blockDevice = `/dev/(sd|hd|vd|xvd|nvme|mmcblk|r?disk|md|dm-|loop|mapper/)`
)

// find actions that remove what they match.
var findDelete = []string{"-delete", "-exec rm", "-execdir rm", "-exec /bin/rm", "-ok rm"}

var formatTools = []string{"mkfs", "mkfs.*", "mke2fs", "mkswap", "newfs", "newfs_*"}

var builtinRisk = []RiskPattern{
	// Destructive pass.
	{
		ID: "rm-root", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Recursive delete of the filesystem root or a home directory",
		Structural: &Structural{
			Executable: []string{"rm"},
			FlagsAny:   []string{"r"},
			ArgsAny:    rootTargets,
		},
	},
	{
		ID: "rm-no-preserve-root", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "rm --no-preserve-root disables the root safeguard",
		Structural: &Structural{
			Executable: []string{"rm"},
			FlagsAny:   []string{"no-preserve-root"},
		},
	},
	{
		ID: "rm-protected", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Recursive delete of a protected path",
		Structural: &Structural{
			Executable:    []string{"rm"},
			FlagsAny:      []string{"r"},
			ArgsProtected: true,
		},
	},
	{
		ID: "find-delete-root", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "find deletes everything under the filesystem root or a home directory",
		Structural: &Structural{
			Executable: []string{"find"},
			WordsAny:   findDelete,
			ArgsAny:    rootTargets,
		},
	},
	{
		ID: "find-delete-protected", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "find deletes files under a protected path",
		Structural: &Structural{
			Executable:    []string{"find"},
			WordsAny:      findDelete,
			ArgsProtected: true,
		},
	},
	{
		ID: "interpreter-rmtree-root", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Inline script recursively deletes the filesystem root or a home directory",
		Structural: &Structural{
			Executable: []string{"python*", "pypy*"},
			FlagsAny:   []string{"c"},
			ArgsRegex:  `\brmtree\(\s*(?:r?['"](?:/|~/?|\$HOME/?)['"]|os\.path\.expanduser\(\s*['"]~/?['"]\s*\)|os\.environ\[\s*['"]HOME['"]\s*\])`,
		},
	},
	{
		ID: "dd-whole-disk", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "dd overwrites an entire disk",
		Structural: &Structural{
			Executable: []string{"dd"},
			ArgsRegex:  `^of=` + wholeDisk + `$`,
		},
	},
	{
		ID: "wipe-whole-disk", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Disk wipe of an entire device",
		Structural: &Structural{
			Executable: []string{"shred", "wipefs", "blkdiscard"},
			ArgsRegex:  `^` + wholeDisk + `$`,
		},
	},
	{
		ID: "format-whole-disk", Pass: PassDestructive, Category: risk.FilesystemFormat, Level: risk.Dangerous,
		Message: "Creating a filesystem on an entire disk erases it",
		Structural: &Structural{
			Executable: formatTools,
			ArgsRegex:  `^` + wholeDisk + `$`,
		},
	},
	{
		ID: "fork-bomb", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Fork bomb exhausts process table",
		Regex:   `:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;?\s*:`,
	},
	{
		ID: "recursive-permission-root", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message: "Recursive permission or ownership change of the filesystem root",
		Structural: &Structural{
			Executable: []string{"chmod", "chown", "chgrp"},
			FlagsAny:   []string{"R"},
			ArgsAny:    rootTargets,
		},
	},
	{
		ID: "redirect-protected", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message:    "Output redirection overwrites a protected path",
		Structural: &Structural{RedirectProtected: true},
	},
	{
		ID: "redirect-whole-disk", Pass: PassDestructive, Category: risk.Destructive, Level: risk.Dangerous,
		Message:    "Output redirection overwrites an entire disk",
		Structural: &Structural{RedirectRegex: `^` + wholeDisk + `$`},
	},

	// High-risk pass.
	{
		ID: "rm-recursive", Pass: PassHighRisk, Category: risk.Destructive, Level: risk.High,
		Message: "Recursive delete",
		Structural: &Structural{
			Executable: []string{"rm"},
			FlagsAny:   []string{"r"},
		},
	},
	{
		ID: "find-delete", Pass: PassHighRisk, Category: risk.Destructive, Level: risk.High,
		Message: "find deletes every file it matches",
		Structural: &Structural{
			Executable: []string{"find"},
			WordsAny:   findDelete,
		},
	},
	{
		ID: "dd-block-device", Pass: PassHighRisk, Category: risk.Destructive, Level: risk.High,
		Message: "dd writes to a raw block device",
		Structural: &Structural{
			Executable: []string{"dd"},
			ArgsRegex:  `^of=` + blockDevice,
		},
	},
	{
		ID: "redirect-block-device", Pass: PassHighRisk, Category: risk.Destructive, Level: risk.High,
		Message:    "Output redirection writes to a raw block device",
		Structural: &Structural{RedirectRegex: `^` + blockDevice},
	},
	{
		ID: "format-device", Pass: PassHighRisk, Category: risk.FilesystemFormat, Level: risk.High,
		Message: "Filesystem or partition table change on a device",
		Structural: &Structural{
			Executable: append([]string{"fdisk", "sfdisk", "gdisk", "cfdisk", "parted", "wipefs"}, formatTools...),
			ArgsRegex:  `^/dev/`,
		},
	},
	{
		ID: "kill-all-processes", Pass: PassHighRisk, Category: risk.Destructive, Level: risk.High,
		Message: "Signal sent to every process",
		Regex:   `(^|[\s;&|(])kill\s+(-9|-KILL|-SIGKILL|-s\s+(9|KILL|SIGKILL))\s+-1(\s|$)`,
	},

	// Injection pass.
	{
		ID: "pipe", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "Pipe chains a second command",
		Structural: &Structural{Operators: []string{"|", "|&"}},
	},
	{
		ID: "command-sequence", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "Semicolon runs several commands in sequence",
		Structural: &Structural{Operators: []string{";"}},
	},
	{
		ID: "conditional-chain", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "&& or || chains a second command",
		Structural: &Structural{Operators: []string{"&&", "||"}},
	},
	{
		ID: "command-substitution", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "Command substitution runs an embedded command",
		Structural: &Structural{Substitution: []string{"$()", "`"}},
	},
	{
		ID: "process-substitution", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "Process substitution runs an embedded command",
		Structural: &Structural{Substitution: []string{"<()", ">()"}},
	},
	{
		ID: "download-to-interpreter", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message: "Downloaded content piped into an interpreter",
		Structural: &Structural{
			PipeFrom: []string{"curl", "wget", "fetch", "aria2c"},
			PipeTo:   []string{"sh", "bash", "zsh", "dash", "ksh", "fish", "python*", "perl", "ruby", "node", "php"},
		},
	},
	{
		ID: "eval", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "eval executes a constructed string",
		Structural: &Structural{Executable: []string{"eval"}},
	},
	{
		ID: "hidden-unicode", Pass: PassInjection, Category: risk.Injection, Level: risk.High,
		Message:    "Invisible or reordering characters hide part of the command",
		Structural: &Structural{Unicode: "hidden"},
	},

	// Privilege pass.
	{
		ID: "privilege-wrapper", Pass: PassPrivilege, Category: risk.PrivilegeEscalation, Level: risk.Medium,
		Message:    "Runs with elevated privileges",
		Structural: &Structural{Wrapper: []string{"sudo", "doas", "pkexec", "run0"}},
	},
	{
		ID: "privilege-shell", Pass: PassPrivilege, Category: risk.PrivilegeEscalation, Level: risk.Medium,
		Message:    "Opens a privileged session",
		Structural: &Structural{Executable: []string{"sudo", "doas", "pkexec", "run0", "su"}},
	},
	{
		ID: "chmod-world-writable", Pass: PassPrivilege, Category: risk.PrivilegeEscalation, Level: risk.Medium,
		Message: "Grants write access to everyone",
		Structural: &Structural{
			Executable: []string{"chmod"},
			ArgsRegex:  `^(0*[0-7]?[0-7][0-7][2367]|[ugo]*[ao][ugoa]*[+=][rwxXst]*w[rwxXst]*)$`,
		},
	},
	{
		ID: "chmod-setuid", Pass: PassPrivilege, Category: risk.PrivilegeEscalation, Level: risk.Medium,
		Message: "Sets the setuid or setgid bit",
		Structural: &Structural{
			Executable: []string{"chmod"},
			ArgsRegex:  `^(0*[2-7][0-7]{3}|[ugoa]*[+=][rwxXt]*s[rwxXt]*)$`,
		},
	},
	{
		ID: "process-kill", Pass: PassPrivilege, Category: risk.Destructive, Level: risk.Medium,
		Message:    "Terminates running processes",
		Structural: &Structural{Executable: []string{"kill", "killall", "pkill", "xkill"}},
	},

	// Traversal pass.
	{
		ID: "path-traversal", Pass: PassTraversal, Category: risk.PathTraversal, Level: risk.Medium,
		Message:    "Relative path traversal (../)",
		Structural: &Structural{ArgsRegex: `(^|/)\.\.(/|$)`},
	},
	{
		ID: "redirect-traversal", Pass: PassTraversal, Category: risk.PathTraversal, Level: risk.Medium,
		Message:    "Output redirection through ../",
		Structural: &Structural{RedirectRegex: `(^|/)\.\.(/|$)`},
	},
	{
		ID: "redirect-outside-workspace", Pass: PassTraversal, Category: risk.PathTraversal, Level: risk.Medium,
		Message: "Output redirection to an absolute path",
		Structural: &Structural{
			RedirectRegex: `^(/|~|\$HOME)`,
			RedirectNone:  []string{"/dev/null", "/dev/stdout", "/dev/stderr", "/dev/tty", "/dev/fd/*", "/tmp/**"},
		},
	},
	{
		ID: "homoglyph", Pass: PassTraversal, Category: risk.Injection, Level: risk.Medium,
		Message:    "Characters that look like Latin letters but are not",
		Structural: &Structural{Unicode: "confusable"},
	},

	// Network pass.
	{
		ID: "outbound-network", Pass: PassNetwork, Category: risk.NetworkExfiltration, Level: risk.Low,
		Message: "Outbound network access",
		Structural: &Structural{
			Executable: []string{
				"curl", "wget", "fetch", "aria2c", "http", "https",
				"nc", "ncat", "netcat", "socat", "telnet",
				"ssh", "scp", "sftp", "rsync", "ftp",
			},
			HasPipe: &no,
		},
	},
	{
		ID: "http-upload", Pass: PassNetwork, Category: risk.NetworkExfiltration, Level: risk.Medium,
		Message: "Uploads local data to a remote host",
		Structural: &Structural{
			Executable: []string{"curl"},
			FlagsAny:   []string{"d", "F", "T", "data-binary", "data-raw", "data-urlencode", "json", "upload-file"},
		},
	},
	{
		ID: "wget-post", Pass: PassNetwork, Category: risk.NetworkExfiltration, Level: risk.Medium,
		Message: "Uploads local data to a remote host",
		Structural: &Structural{
			Executable: []string{"wget"},
			FlagsAny:   []string{"post-data", "post-file", "body-file"},
		},
	},
}

// BuiltinRisk returns a compiled copy of the built-in risk table.
func BuiltinRisk() []RiskPattern {
	return append([]RiskPattern(nil), compiledRisk...)
}

var compiledRisk = mustCompileRisk(builtinRisk)

func mustCompileRisk(in []RiskPattern) []RiskPattern {
	out := make([]RiskPattern, len(in))
	copy(out, in)
	for i := range out {
		if err := out[i].Compile(); err != nil {
			panic(err)
		}
	}
	return out
}
