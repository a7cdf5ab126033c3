package mdstat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resyncingMirror = `Personalities : [raid1]
md0 : active raid1 sdb1[1] sda1[0]
      1953514496 blocks super 1.2 [2/2] [UU]
      [===>.................]  resync = 15.5% (303746432/1953514496) finish=115.2min speed=162033K/sec
unused devices: <none>
`

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestParseResyncingMirror(t *testing.T) {
	var rec Recorder
	snap := Parse(resyncingMirror, &rec)

	assert.Empty(t, rec.Diagnostics())
	assert.Equal(t, "[raid1]", snap.Personalities)
	assert.Equal(t, "<none>", snap.UnusedDevices)
	require.Len(t, snap.Arrays, 1)

	md0 := snap.Arrays[0]
	assert.Equal(t, "md0", md0.Name)
	assert.Equal(t, "active", md0.Status)
	assert.Equal(t, "raid1", md0.RaidLevel)
	assert.Equal(t, []string{"sdb1[1]", "sda1[0]"}, md0.MemberTokens)
	assert.Equal(t, "1953514496 blocks", md0.UsableSize)
	assert.Equal(t, " super 1.2", md0.OtherSettings)
	assert.Equal(t, "2/2", md0.HealthyDrivesRatio)
	assert.Equal(t, "[UU]", md0.DriveStatusBitmap)
	assert.Equal(t, "15.5% (303746432/1953514496) finish=115.2min speed=162033K/sec", md0.Resync)
	assert.Empty(t, md0.Recovery)
	assert.Empty(t, md0.CheckArray)
	assert.Empty(t, md0.Bitmap)

	arrays := ArrayRows(snap, &rec)
	require.Len(t, arrays, 1)
	assert.Equal(t, "raid1", arrays[0].RaidLevel)
	assert.Equal(t, "2/2", arrays[0].HealthyDrives)
	assert.Equal(t, "1953514496 blocks", arrays[0].UsableSize)
	assert.Equal(t, "15.5% (303746432/1953514496)", arrays[0].ResyncProgress)
	assert.Equal(t, "115.2min", arrays[0].ResyncFinish)
	assert.Equal(t, "162033K/sec", arrays[0].ResyncSpeed)

	drives := DriveRows(snap, &rec)
	require.Len(t, drives, 2)
	for _, d := range drives {
		assert.Equal(t, "md0", d.MDDeviceName)
		assert.Equal(t, "1", d.Status)
	}

	personalities := PersonalityRows(snap, &rec)
	assert.Equal(t, []PersonalityRow{{Name: "raid1"}}, personalities)
	assert.Empty(t, rec.Diagnostics())
}

func TestParseIsIdempotent(t *testing.T) {
	for _, text := range []string{resyncingMirror, readFixture(t, "degraded.mdstat"), "", "garbage\nmd9"} {
		assert.Equal(t, Parse(text, nil), Parse(text, nil))
	}
}

func TestParseEmptySource(t *testing.T) {
	for _, text := range []string{"", "\n\n", " \t\r\v\n  \n"} {
		var rec Recorder
		snap := Parse(text, &rec)

		assert.Equal(t, Snapshot{}, snap)
		require.Len(t, rec.Diagnostics(), 1)
		assert.Equal(t, SeverityInfo, rec.Diagnostics()[0].Severity)
		assert.Equal(t, "source empty", rec.Diagnostics()[0].Message)
	}
}

func TestParseDegradedFixture(t *testing.T) {
	var rec Recorder
	snap := Parse(readFixture(t, "degraded.mdstat"), &rec)
	require.Empty(t, rec.Diagnostics())

	assert.Equal(t, "[raid1] [raid6] [raid5] [raid4] [linear] [multipath] [raid0] [raid10]", snap.Personalities)
	assert.Equal(t, "sdj1 sdk1", snap.UnusedDevices)
	require.Len(t, snap.Arrays, 3)

	md2, ok := snap.Array("md2")
	require.True(t, ok)
	assert.Equal(t, "raid5", md2.RaidLevel)
	assert.Equal(t, " super 1.2 level 5, 512k chunk, algorithm 2", md2.OtherSettings)
	assert.Equal(t, "4/3", md2.HealthyDrivesRatio)
	assert.Equal(t, "[UUU_]", md2.DriveStatusBitmap)
	assert.Equal(t, "8.5% (166275584/1953382400) finish=168.4min speed=176813K/sec", md2.Recovery)
	assert.Equal(t, "2/15 pages [8KB], 65536KB chunk", md2.Bitmap)

	md1, ok := snap.Array("md1")
	require.True(t, ok)
	assert.Equal(t, []string{"sdg1[1](F)", "sdf1[0]"}, md1.MemberTokens)
	assert.Equal(t, &BitmapInfo{
		PagesInMemory: "1/8 pages [4KB]",
		ChunkSize:     "65536KB chunk",
		ExternalFile:  "/var/lib/mdadm/md1.bitmap",
	}, md1.BitmapInfo())

	md0, ok := snap.Array("md0")
	require.True(t, ok)
	assert.Equal(t, &ProgressInfo{
		Progress:  "12.1% (59103616/488253440)",
		FinishETA: "40.3min",
		Speed:     "177456K/sec",
	}, md0.CheckProgress())
	assert.Nil(t, md0.ResyncProgress())
	assert.Nil(t, md0.RecoveryProgress())
	assert.Nil(t, md0.BitmapInfo())

	_, ok = snap.Array("md3")
	assert.False(t, ok)
}

func TestParseInactiveArray(t *testing.T) {
	var rec Recorder
	snap := Parse(readFixture(t, "inactive.mdstat"), &rec)

	require.Len(t, snap.Arrays, 1)
	md127 := snap.Arrays[0]
	assert.Equal(t, "inactive", md127.Status)
	assert.Equal(t, "sdb[0](S)", md127.RaidLevel)
	assert.Empty(t, md127.MemberTokens)
	// four tokens are enough to be read as a configuration line
	assert.Equal(t, "1953514496 blocks", md127.UsableSize)
	assert.Equal(t, "super", md127.HealthyDrivesRatio)
	assert.Equal(t, "1.2", md127.DriveStatusBitmap)
	assert.Equal(t, "<none>", snap.UnusedDevices)
	assert.Empty(t, rec.Diagnostics())
}

func TestParseMalformedInput(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		arrays      []string
		diagnostics int
		check       func(t *testing.T, snap Snapshot)
	}{
		{
			name:        "missing personalities line",
			text:        "md0 : active raid1 sda1[0]\n100 blocks [1/1] [U]\n",
			arrays:      []string{"md0"},
			diagnostics: 1,
			check: func(t *testing.T, snap Snapshot) {
				assert.Empty(t, snap.Personalities)
				assert.Equal(t, "[U]", snap.Arrays[0].DriveStatusBitmap)
			},
		},
		{
			name:        "header without colon",
			text:        "Personalities : [raid1]\nmd0 active raid1\nmd1 : active raid1 sda1[0]\n100 blocks [1/1] [U]\n",
			arrays:      []string{"md1"},
			diagnostics: 1,
		},
		{
			name:        "header without level",
			text:        "Personalities : [raid1]\nmd0 : active\n100 blocks [1/1] [U]\n",
			arrays:      []string{"md0"},
			diagnostics: 1,
			check: func(t *testing.T, snap Snapshot) {
				assert.Empty(t, snap.Arrays[0].Status)
				assert.Empty(t, snap.Arrays[0].RaidLevel)
				assert.Equal(t, "100 blocks", snap.Arrays[0].UsableSize)
			},
		},
		{
			name:        "header on last line",
			text:        "Personalities : [raid1]\nmd0 : active raid1 sda1[0]",
			arrays:      []string{"md0"},
			diagnostics: 1,
			check: func(t *testing.T, snap Snapshot) {
				assert.Empty(t, snap.Arrays[0].UsableSize)
				assert.Empty(t, snap.Arrays[0].DriveStatusBitmap)
			},
		},
		{
			name:        "short configuration line",
			text:        "Personalities : [raid1]\nmd0 : active raid1 sda1[0]\n100 blocks\nunused devices: <none>\n",
			arrays:      []string{"md0"},
			diagnostics: 1,
			check: func(t *testing.T, snap Snapshot) {
				assert.Empty(t, snap.Arrays[0].UsableSize)
				assert.Equal(t, "<none>", snap.UnusedDevices)
			},
		},
		{
			name:        "unrecognized lines",
			text:        "Personalities : [raid1]\nmd0 : active raid1 sda1[0]\n100 blocks [1/1] [U]\nresync=DELAYED\nfoo bar\nunused devices: <none>\n",
			arrays:      []string{"md0"},
			diagnostics: 2,
		},
		{
			name:        "trailer without marker",
			text:        "Personalities : [raid1]\nunknown\n",
			diagnostics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec Recorder
			snap := Parse(tt.text, &rec)

			var names []string
			for _, a := range snap.Arrays {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.arrays, names)
			assert.Len(t, rec.Diagnostics(), tt.diagnostics, "%v", rec.Diagnostics())
			for _, d := range rec.Diagnostics() {
				assert.Equal(t, SeverityWarning, d.Severity)
			}
			if tt.check != nil {
				tt.check(t, snap)
			}
		})
	}
}

func TestParseDiagnosticLines(t *testing.T) {
	var rec Recorder
	Parse("Personalities : [raid1]\nmd0 : active raid1 sda1[0]\n100 blocks [1/1] [U]\nbogus\n", &rec)

	require.Len(t, rec.Diagnostics(), 1)
	assert.Equal(t, 4, rec.Diagnostics()[0].Line)
	assert.Equal(t, `warning: line 4: unrecognized line "bogus"`, rec.Diagnostics()[0].String())
}

func TestParseMultipleArraysShareUnusedDevices(t *testing.T) {
	text := `Personalities : [raid0] [raid1]
md1 : active raid0 sdc1[1] sdd1[0]
      200 blocks super 1.2 512k chunks [2/2] [UU]
md0 : active raid1 sda1[0] sdb1[1]
      100 blocks super 1.2 [2/2] [UU]
unused devices: sde1
`
	rows := ArrayRows(Parse(text, nil), nil)

	require.Len(t, rows, 2)
	assert.Equal(t, "md1", rows[0].DeviceName)
	assert.Equal(t, "md0", rows[1].DeviceName)
	assert.Equal(t, "sde1", rows[0].UnusedDevices)
	assert.Equal(t, rows[0].UnusedDevices, rows[1].UnusedDevices)
}

func TestNormalize(t *testing.T) {
	lines := Normalize("  a \r\n\n\t\vb\t\n \n c")
	assert.Equal(t, []string{"a", "b", "c"}, lines)
	assert.Empty(t, Normalize(""))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"md0 : active raid1 sda1[0]", ArrayHeader},
		{"md_d0 : active raid1", ArrayHeader},
		{"unused devices: <none>", UnusedDevicesTrailer},
		{"Personalities : [raid1]", Unrecognized},
		{"[==>...]  resync = 1.0%", Unrecognized},
		{"m", Unrecognized},
		{"", Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
	assert.Equal(t, "array-header", ArrayHeader.String())
}
