package testdata

import "github.com/gzhole/termshield/internal/risk"

// ---------------------------------------------------------------------------
// Filesystem destruction
//
// The hard part is normalization: -rf, -fr, -r -f and --recursive --force
// all mean the same thing, and quotes or wrappers must not hide the target.
// ---------------------------------------------------------------------------

// RecursiveDeleteCases covers rm against the root, home and ordinary paths.
var RecursiveDeleteCases = []TestCase{
	{
		ID:             "TP-DESTR-001",
		Command:        `rm -rf /`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Recursive force delete of the filesystem root.`,
		Tags:           []string{"canonical"},
	},
	{
		ID:             "TP-DESTR-002",
		Command:        `rm -fr /`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Flag order swapped. Combined short flags are split before matching.`,
		Tags:           []string{"flag-normalization"},
	},
	{
		ID:             "TP-DESTR-003",
		Command:        `rm --recursive --force "/"`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Long flags and a double-quoted target.`,
		Tags:           []string{"flag-normalization", "quoting"},
	},
	{
		ID:             "TP-DESTR-004",
		Command:        `sudo rm -rf /*`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description: `Root glob behind sudo. The wrapper is stripped and the
			unexpanded /* is treated as the root.`,
		Tags: []string{"wrapper"},
	},
	{
		ID:             "TP-DESTR-005",
		Command:        `rm -rf ~/`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Home directory root with a trailing slash.`,
	},
	{
		ID:             "TP-DESTR-006",
		Command:        `rm -rf /usr`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Top-level system directory.`,
	},
	{
		ID:             "TP-DESTR-007",
		Command:        `rm -rf /home/alice`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Another user's home directory.`,
	},
	{
		ID:             "TP-DESTR-008",
		Command:        `timeout 5 rm -r -f '/'`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Separate flags, single quotes and a timeout wrapper.`,
		Tags:           []string{"wrapper", "quoting", "flag-normalization"},
	},
	{
		ID:             "TP-DESTR-009",
		Command:        `bash -c "rm -rf /"`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Inline script passed to a shell is parsed as a command too.`,
		Tags:           []string{"indirect-execution"},
	},
	{
		ID:             "TP-DESTR-010",
		Command:        `rm -rf node_modules`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.Destructive,
		Description: `Recursive delete of a project directory. Common, but
			irreversible, so high rather than dangerous.`,
		Tags: []string{"common-dev-operation"},
	},
	{
		ID:             "TP-DESTR-011",
		Command:        `rm -rf /tmp/test`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Recursive delete below the root is high, not dangerous.`,
		Tags:           []string{"canonical"},
	},
	{
		ID:             "TN-DESTR-001",
		Command:        `rm notes.txt`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `Single file delete without recursion.`,
		Tags:           []string{"common-dev-operation"},
	},
	{
		ID:             "TN-DESTR-002",
		Command:        `rm -f *.log`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `Forced but not recursive.`,
	},
	{
		ID:             "TN-DESTR-003",
		Command:        `echo "rm -rf /"`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `The dangerous text is a quoted argument to echo.`,
		Tags:           []string{"string-literal"},
	},
	{
		ID:             "TN-DESTR-004",
		Command:        `git rm -r --cached build`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `git's rm subcommand only touches the index.`,
		Tags:           []string{"common-dev-operation"},
	},
	{
		ID:             "TP-DESTR-012",
		Command:        `find / -delete`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `find with -delete from the root removes everything, same as rm -rf /.`,
		Tags:           []string{"canonical"},
	},
	{
		ID:             "TP-DESTR-013",
		Command:        `python3 -c "import shutil; shutil.rmtree('/')"`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Recursive delete of the root through an inline Python script.`,
		Tags:           []string{"indirect-execution"},
	},
	{
		ID:             "TP-DESTR-014",
		Command:        `sudo find ~/.ssh -type f -exec rm {} \;`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `find -exec rm over a protected directory.`,
		Tags:           []string{"wrapper"},
	},
	{
		ID:             "TP-DESTR-015",
		Command:        `find ./build -name '*.o' -delete`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `find -delete below the root is high, like rm -r.`,
		Tags:           []string{"common-dev-operation"},
	},
	{
		ID:             "TN-DESTR-005",
		Command:        `find . -name '*.go' -newer go.mod`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `find without a delete action only lists files.`,
		Tags:           []string{"common-dev-operation"},
	},
	{
		ID:             "TN-DESTR-006",
		Command:        `python3 -c "import shutil; shutil.rmtree('build')"`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `rmtree of a relative build directory is ordinary cleanup.`,
		Tags:           []string{"indirect-execution"},
	},
}

// ---------------------------------------------------------------------------
// Disks and filesystems
//
// A whole disk is dangerous; a partition or other block device is high.
// ---------------------------------------------------------------------------

// DiskCases covers dd, wipes and filesystem creation.
var DiskCases = []TestCase{
	{
		ID:             "TP-DISK-001",
		Command:        `dd if=/dev/urandom of=/dev/nvme0n1 bs=4M`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Overwrites an entire NVMe disk.`,
		Tags:           []string{"canonical"},
	},
	{
		ID:             "TP-DISK-002",
		Command:        `mkfs.ext4 /dev/sdc`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.FilesystemFormat,
		Description:    `New filesystem across a whole disk.`,
	},
	{
		ID:             "TP-DISK-003",
		Command:        `shred -n 3 /dev/sda`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Secure wipe of a whole disk.`,
	},
	{
		ID:             "TP-DISK-004",
		Command:        `cat image.iso > /dev/sdb`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Redirection onto a whole disk.`,
	},
	{
		ID:             "TP-DISK-005",
		Command:        `dd if=backup.img of=/dev/sdb2`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Raw write to a single partition.`,
	},
	{
		ID:             "TP-DISK-006",
		Command:        `fdisk /dev/sda`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.FilesystemFormat,
		Description:    `Partition table editor on a device.`,
	},
	{
		ID:             "TN-DISK-001",
		Command:        `dd if=/dev/zero of=swap.img bs=1M count=512`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `dd into a regular file.`,
	},
	{
		ID:             "TN-DISK-002",
		Command:        `lsblk /dev/sda`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `Read-only device listing.`,
	},
}

// ResourceCases covers fork bombs, mass kills and root permission changes.
var ResourceCases = []TestCase{
	{
		ID:             "TP-RES-001",
		Command:        `:(){ :|:& };:`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Classic fork bomb.`,
		Tags:           []string{"canonical"},
	},
	{
		ID:             "TP-RES-002",
		Command:        `chown -R nobody /`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Recursive ownership change of the root breaks the system.`,
	},
	{
		ID:             "TP-RES-003",
		Command:        `chmod -R 777 /`,
		ExpectedLevel:  risk.Dangerous,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Recursive world-writable root.`,
	},
	{
		ID:             "TP-RES-004",
		Command:        `kill -9 -1`,
		ExpectedLevel:  risk.High,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `SIGKILL to every process the user can signal.`,
	},
	{
		ID:             "TP-RES-005",
		Command:        `killall app`,
		ExpectedLevel:  risk.Medium,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `Terminates processes by name.`,
	},
	{
		ID:             "TP-RES-006",
		Command:        `pkill -9 -f server`,
		ExpectedLevel:  risk.Medium,
		Classification: "TP",
		Category:       risk.Destructive,
		Description:    `pkill is process control, not a mass kill.`,
	},
	{
		ID:             "TN-RES-001",
		Command:        `skill test`,
		ExpectedLevel:  risk.Safe,
		Classification: "TN",
		Category:       risk.Destructive,
		Description:    `"kill" as a substring of another word must not match.`,
	},
}

// AllDestructiveCases returns every case in this file.
func AllDestructiveCases() []TestCase {
	var all []TestCase
	all = append(all, RecursiveDeleteCases...)
	all = append(all, DiskCases...)
	all = append(all, ResourceCases...)
	return all
}
