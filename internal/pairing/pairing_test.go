package pairing

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/framemark/framemark/internal/models"
)

func frameWithIssues(frame int, issues ...models.IssueTag) models.FrameRecord {
	return models.FrameRecord{
		Org: "orgA", Dataset: "dataset", Episode: 1,
		Frame:  frame,
		Issues: issues,
	}
}

func TestCheckMismatch(t *testing.T) {
	table := Table{{Issue: models.IssueLeftArmMissed, Recovery: models.IssueLeftArmRecovery}}

	frames := []models.FrameRecord{
		frameWithIssues(0, models.IssueLeftArmMissed),
		frameWithIssues(5, models.IssueLeftArmMissed),
		frameWithIssues(9, models.IssueLeftArmRecovery),
	}

	got := Check(table, frames)
	want := []string{"left_arm_missed (2×) should match left_arm_recovery (1×)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Check() = %v, want %v", got, want)
	}
}

func TestCheckBalanced(t *testing.T) {
	table := Table{{Issue: models.IssueGraspSlip, Recovery: models.IssueGraspRecovery}}

	frames := []models.FrameRecord{
		frameWithIssues(0, models.IssueGraspSlip),
		frameWithIssues(4, models.IssueGraspRecovery),
	}

	if got := Check(table, frames); len(got) != 0 {
		t.Errorf("balanced counts: Check() = %v, want none", got)
	}
}

func TestCheckAbsentGroup(t *testing.T) {
	frames := []models.FrameRecord{
		frameWithIssues(0, models.IssueGraspSlip),
		frameWithIssues(4, models.IssueGraspRecovery),
	}

	// Groups with zero issue and zero recovery occurrences stay silent.
	if got := Check(DefaultTable, frames); len(got) != 0 {
		t.Errorf("absent groups: Check() = %v, want none", got)
	}
}

func TestCheckRecoveryWithoutIssue(t *testing.T) {
	table := Table{{Issue: models.IssueCollision, Recovery: models.IssueCollisionFixed}}

	frames := []models.FrameRecord{
		frameWithIssues(3, models.IssueCollisionFixed),
	}

	// Zero issue occurrences never warn, even with stray recoveries.
	if got := Check(table, frames); len(got) != 0 {
		t.Errorf("recovery only: Check() = %v, want none", got)
	}
}

func TestCheckRecoveryGroupSums(t *testing.T) {
	table := Table{
		{Issue: models.IssueLeftArmMissed, Recovery: models.IssueLeftArmRecovery},
		{Issue: models.IssueLeftArmDrop, Recovery: models.IssueLeftArmRecovery},
	}

	// Two tags from the same group on one frame count once per tag.
	frames := []models.FrameRecord{
		frameWithIssues(0, models.IssueLeftArmMissed, models.IssueLeftArmDrop),
		frameWithIssues(7, models.IssueLeftArmRecovery),
	}

	got := Check(table, frames)
	want := []string{"left_arm_missed+left_arm_drop (2×) should match left_arm_recovery (1×)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Check() = %v, want %v", got, want)
	}
}

func TestCheckOutputFollowsTableOrder(t *testing.T) {
	table := Table{
		{Issue: models.IssueCollision, Recovery: models.IssueCollisionFixed},
		{Issue: models.IssueGraspSlip, Recovery: models.IssueGraspRecovery},
	}

	// Input frames mention grasp_slip first; output still leads with the
	// collision group because the table does.
	frames := []models.FrameRecord{
		frameWithIssues(0, models.IssueGraspSlip),
		frameWithIssues(1, models.IssueCollision),
	}

	got := Check(table, frames)
	want := []string{
		"collision (1×) should match collision_recovery (0×)",
		"grasp_slip (1×) should match grasp_recovery (0×)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Check() = %v, want %v", got, want)
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.yaml")
	content := `
- issue: left_arm_missed
  recovery: left_arm_recovery
- issue: grasp_slip
  recovery: grasp_recovery
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}

	want := Table{
		{Issue: models.IssueLeftArmMissed, Recovery: models.IssueLeftArmRecovery},
		{Issue: models.IssueGraspSlip, Recovery: models.IssueGraspRecovery},
	}
	if !reflect.DeepEqual(table, want) {
		t.Errorf("LoadTable() = %v, want %v", table, want)
	}
}

func TestLoadTableRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pairs.yaml")
	if err := os.WriteFile(path, []byte("- issue: grasp_slip\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadTable(path); err == nil {
		t.Error("LoadTable() accepted an entry without a recovery tag")
	}
}
