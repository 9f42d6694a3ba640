package df

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dfinspect/internal/model"
)

func itemNames(items []model.Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

func TestDiscover_GroupsAndUngrouped(t *testing.T) {
	groups := []GroupDefinition{
		{Name: "my-group", Patterns: model.GroupPatterns{Include: []string{"/", "/foo"}, Exclude: []string{"/bar"}}},
	}

	items := Discover(createGroupRecords(), groups, DefaultDiscoveryOptions())

	assert.Equal(t, []string{"my-group", "/bar", "btrfs /dev/sdb1"}, itemNames(items))
	require.True(t, items[0].IsGroup())
	assert.Equal(t, []string{"/", "/foo"}, items[0].Patterns.Include)
	assert.Equal(t, []string{"/bar"}, items[0].Patterns.Exclude)
	assert.Equal(t, model.ItemKindFilesystem, items[1].Kind)
	assert.Nil(t, items[1].Patterns)

	assert.Equal(t, "mountpoint", items[0].GroupingBehaviour)
	assert.Empty(t, items[0].ItemAppearance)
	assert.Equal(t, "mountpoint", items[1].ItemAppearance)
}

func TestDiscover_EmptyGroupIsSkipped(t *testing.T) {
	groups := []GroupDefinition{
		{Name: "nothing", Patterns: model.GroupPatterns{Include: []string{"/nope/*"}}},
	}

	items := Discover(createGroupRecords(), groups, DefaultDiscoveryOptions())

	assert.Equal(t, []string{"/", "/foo", "/bar", "btrfs /dev/sdb1"}, itemNames(items))
}

func TestDiscover_PatternsAreSnapshotted(t *testing.T) {
	groups := []GroupDefinition{
		{Name: "g", Patterns: model.GroupPatterns{Include: []string{"/foo"}}},
	}
	items := Discover(createGroupRecords(), groups, DefaultDiscoveryOptions())

	groups[0].Patterns.Include[0] = "/bar"
	assert.Equal(t, []string{"/foo"}, items[0].Patterns.Include)
}

func TestDiscover_FirstOccurrenceWins(t *testing.T) {
	records := []model.FilesystemRecord{
		{Device: "/dev/sda1", Mountpoint: "/data", FSType: "ext4"},
		{Device: "/dev/sdb1", Mountpoint: "/data", FSType: "ext4"},
	}
	items := Discover(records, nil, DefaultDiscoveryOptions())
	assert.Equal(t, []string{"/data"}, itemNames(items))
}

func TestDiscover_IgnoredFilesystems(t *testing.T) {
	records := []model.FilesystemRecord{
		{Device: "tmpfs", Mountpoint: "/opt/omd/sites/heute/tmp", FSType: "tmpfs"},
		{Device: "tmpfs", Mountpoint: "/dev/shm", FSType: "tmpfs"},
		{Device: "/dev/sda2", Mountpoint: "/var/lib/docker", FSType: "ext4"},
		{Device: "/dev/sda3", Mountpoint: "/var/lib/docker-latest", FSType: "ext4"},
		{Device: "/dev/sda4", Mountpoint: "/var/lib/docker/some-fs/mnt/grtzlhash", FSType: "ext4"},
	}

	items := Discover(records, nil, DefaultDiscoveryOptions())
	assert.Equal(t, []string{"/var/lib/docker", "/var/lib/docker-latest"}, itemNames(items))

	opts := DefaultDiscoveryOptions()
	opts.NeverIgnoreMountpoints = []string{"~.*/omd/sites/[^/]+/tmp$"}
	items = Discover(records, nil, opts)
	assert.Equal(t, []string{"/opt/omd/sites/heute/tmp", "/var/lib/docker", "/var/lib/docker-latest"}, itemNames(items))

	opts = DefaultDiscoveryOptions()
	opts.IgnoreFSTypes = nil
	opts.ItemAppearance = NameVolumeNameAndMountpoint
	items = Discover(records[:2], nil, opts)
	assert.Equal(t, []string{"tmpfs /opt/omd/sites/heute/tmp", "tmpfs /dev/shm"}, itemNames(items))
}

func TestDiscover_GroupingBehaviourVolumeName(t *testing.T) {
	opts := DefaultDiscoveryOptions()
	opts.ItemAppearance = NameVolumeNameAndMountpoint
	opts.GroupingBehaviour = NameVolumeNameAndMountpoint
	groups := []GroupDefinition{
		{Name: "my-group", Patterns: model.GroupPatterns{Include: []string{"/dev/sda1 /", "/dev/sda2 /foo"}}},
	}

	items := Discover(createGroupRecords(), groups, opts)

	assert.Equal(t, []string{"my-group", "/dev/sda3 /bar", "/dev/sdb1 btrfs /dev/sdb1"}, itemNames(items))
}

func TestCollapseBtrfs(t *testing.T) {
	records := []model.FilesystemRecord{
		{Device: "/dev/sda1", Mountpoint: "/", FSType: "btrfs", SizeMB: 20479},
		{Device: "/dev/sda1", Mountpoint: "/var/log", FSType: "btrfs", SizeMB: 20479},
		{Device: "/dev/sda2", Mountpoint: "/boot", FSType: "ext4", SizeMB: 512},
		{Device: "/dev/sdb1", Mountpoint: "/srv", FSType: "btrfs", SizeMB: 100},
	}

	out := CollapseBtrfs(records)

	require.Len(t, out, 3)
	assert.Equal(t, "btrfs /dev/sda1", out[0].Mountpoint)
	assert.Equal(t, "/boot", out[1].Mountpoint)
	assert.Equal(t, "btrfs /dev/sdb1", out[2].Mountpoint)
	assert.Equal(t, "/", records[0].Mountpoint, "input untouched")
}
