package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const meadowXML = `<scene>
	<boundary w="10" h="6"/>
	<tilemap texture="meadow">
		<layer>
			<grass x="0" y="5"/>
			<grass x="1" y="5"/>
			<grass x="2" y="5"/>
		</layer>
	</tilemap>
	<collisionboxes>
		<wall x="0" y="4" w="3" h="1" bind="floor"/>
		<box x="5" y="2" w="1" h="1" event="hello"/>
	</collisionboxes>
</scene>
`

func TestInfoReportsPhysicsShapes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "meadow.xml"), []byte(meadowXML), 0o644); err != nil {
		t.Fatalf("write scene: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--config", filepath.Join(dir, "missing.yaml"), "--scenes", dir, "--log-level", "error", "info", "meadow"})
	defer rootCmd.SetArgs(nil)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("info: %v", err)
	}

	text := out.String()
	// two boxes, the grass row condensed to one shape, four boundary segments
	for _, want := range []string{"scene   meadow", "boxes   wall   1", "group   floor: 1 members", "physics 7 shapes (2 from boxes)"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output is missing %q:\n%s", want, text)
		}
	}
}
