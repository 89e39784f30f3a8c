package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendResults_CreatesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")

	if e := appendResults(path, []string{"hej", "en bil\tbilen"}); e != nil {
		t.Fatalf("appendResults failed: %v", e)
	}
	if e := appendResults(path, nil); e != nil {
		t.Fatalf("appendResults failed: %v", e)
	}
	if e := appendResults(path, []string{"hus"}); e != nil {
		t.Fatalf("appendResults failed: %v", e)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read result file: %v", err)
	}
	if string(content) != "hej\nen bil\tbilen\nhus\n" {
		t.Errorf("result file = %q", content)
	}
}

func TestSaveJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "summary.json")
	results := []DirectoryResult{{Dir: "d1", Texts: []string{"bil"}, Total: 1, ResultPath: "d1/result.txt"}}

	if e := SaveJSONToFile(path, results); e != nil {
		t.Fatalf("SaveJSONToFile failed: %v", e)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read JSON file: %v", err)
	}
	var decoded []DirectoryResult
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Dir != "d1" || decoded[0].Texts[0] != "bil" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestListImagesInDir_Sorted(t *testing.T) {
	dir := t.TempDir()
	writeCards(t, dir, []string{"img_10.png", "img_02.png", "img_1.png"}, map[string]string{})

	images, e := listImagesInDir(dir, DefaultValueConfig())
	if e != nil {
		t.Fatalf("listImagesInDir failed: %v", e)
	}

	want := []string{
		filepath.Join(dir, "img_02.png"),
		filepath.Join(dir, "img_1.png"),
		filepath.Join(dir, "img_10.png"),
	}
	if len(images) != len(want) {
		t.Fatalf("images = %v, want %v", images, want)
	}
	for i := range want {
		if images[i] != want[i] {
			t.Errorf("images[%d] = %q, want %q", i, images[i], want[i])
		}
	}
}

func TestNewRunSummary(t *testing.T) {
	results := []DirectoryResult{
		{Dir: "d1", Texts: []string{"bil", "hus"}, Deleted: 1, Total: 3},
		{Dir: "d2", Texts: []string{}, Deleted: 2, Total: 2},
	}

	first := NewRunSummary("nested", false, results)
	second := NewRunSummary("nested", false, results)

	if first.Unique != 2 || first.Deleted != 3 {
		t.Errorf("totals = %d unique, %d deleted; want 2 and 3", first.Unique, first.Deleted)
	}
	if first.RunID == "" || first.RunID == second.RunID {
		t.Errorf("run ids %q and %q should be set and distinct", first.RunID, second.RunID)
	}
	if len(first.Directories) != 2 || first.Mode != "nested" {
		t.Errorf("summary = %+v", first)
	}
}
