package filter

import (
	"context"
	"strings"

	"github.com/rushteam/admitkit/core"
)

// BranchFilter 按专业过滤：查询专业与数据行专业大小写不敏感地完全相等（不是子串匹配）。
type BranchFilter struct{}

func (f *BranchFilter) Name() string {
	return "filter.branch"
}

func (f *BranchFilter) ShouldFilter(
	_ context.Context,
	mctx *core.MatchContext,
	cand *core.Candidate,
) (bool, error) {
	if cand == nil {
		return true, nil
	}
	if mctx == nil || mctx.Query == nil {
		return false, nil
	}
	return !MatchBranch(cand.Offering.Branch, mctx.Query.Branch), nil
}

// MatchBranch 判断两个专业名是否相同（统一小写后比较）。
func MatchBranch(a, b string) bool {
	return strings.ToLower(a) == strings.ToLower(b)
}
