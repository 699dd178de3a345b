// Package report edits per-project results documents: it splices a session's
// metrics table into a phase section and rolls the phases up into a total.
package report

import (
	"fmt"
	"sort"
)

// phaseLabels names each stage of the tracked exercise. Phases 5-7 are the
// "feature change" variants and are not part of the totals rollup.
var phaseLabels = map[int]string{
	1: "프로젝트 초기 세팅 + 게시글 CRUD",
	2: "댓글 기능",
	3: "게시글 목록 + 검색",
	4: "좋아요 기능",
	5: "비밀번호 변경 기능 (기능 변경)",
	6: "대댓글 기능 (기능 변경)",
	7: "정렬 옵션 (기능 변경)",
}

// RollupPhases are summed into the Total Summary section.
var RollupPhases = [...]int{1, 2, 3, 4}

// TotalsHeading introduces the rollup section.
const TotalsHeading = "## Total Summary"

// PhaseLabel returns the registered label, or "Phase N" for unknown phases.
func PhaseLabel(phase int) string {
	if label, ok := phaseLabels[phase]; ok {
		return label
	}
	return fmt.Sprintf("Phase %d", phase)
}

// PhaseHeading returns the level-2 heading line for a phase.
func PhaseHeading(phase int) string {
	return fmt.Sprintf("## Phase %d: %s", phase, PhaseLabel(phase))
}

// IsRegistered reports whether phase has a registered label.
func IsRegistered(phase int) bool {
	_, ok := phaseLabels[phase]
	return ok
}

// Phases returns the registered phase numbers in ascending order.
func Phases() []int {
	nums := make([]int, 0, len(phaseLabels))
	for n := range phaseLabels {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
