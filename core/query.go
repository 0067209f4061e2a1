package core

import (
	"strconv"
	"strings"
)

// Category 是预留类别，统一为小写下划线形式（"oc"、"bc_a"、"ews"）。
type Category string

const (
	CategoryOC  Category = "oc"
	CategoryBCA Category = "bc_a"
	CategoryBCB Category = "bc_b"
	CategoryBCC Category = "bc_c"
	CategoryBCD Category = "bc_d"
	CategoryBCE Category = "bc_e"
	CategorySC  Category = "sc"
	CategoryST  Category = "st"
	CategoryEWS Category = "ews"
)

// Categories 是所有已知类别。
var Categories = []Category{
	CategoryOC, CategoryBCA, CategoryBCB, CategoryBCC, CategoryBCD, CategoryBCE,
	CategorySC, CategoryST, CategoryEWS,
}

// ParseCategory 规范化类别输入：去空白、转小写，"-" 与空格替换为 "_"。
// 不做合法性校验，未知类别在列解析阶段以 UNKNOWN_COLUMN 报告。
func ParseCategory(s string) Category {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return Category(s)
}

// Known 判断是否为已知类别。
func (c Category) Known() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Gender 是性别，统一为小写（"male"、"female"）。
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender 规范化性别输入（去空白、转小写），同样不做合法性校验。
func ParseGender(s string) Gender {
	return Gender(strings.ToLower(strings.TrimSpace(s)))
}

// Known 判断是否为已知性别。
func (g Gender) Known() bool {
	return g == GenderMale || g == GenderFemale
}

// RawQuery 是未经解析的请求参数，字段形态与表单提交一致。
type RawQuery struct {
	Rank            string   `json:"rank" yaml:"rank"`
	Category        string   `json:"category" yaml:"category"`
	Gender          string   `json:"gender" yaml:"gender"`
	Branch          string   `json:"branch" yaml:"branch"`
	MaxResults      string   `json:"max_results" yaml:"max_results"`
	PreferredPlaces []string `json:"preferred_places" yaml:"preferred_places"`
}

// EligibilityQuery 是一次查询，按请求构造，构造后不可变。
type EligibilityQuery struct {
	Rank            int
	Category        Category
	Gender          Gender
	Branch          string
	MaxResults      int
	PreferredPlaces []string
}

// ParseQuery 把原始参数解析为 EligibilityQuery。
// rank / max_results 不是正整数时返回 INVALID_RANK / INVALID_COUNT。
func ParseQuery(raw RawQuery) (*EligibilityQuery, error) {
	rank, err := parsePositive(raw.Rank)
	if err != nil {
		return nil, NewFieldError(ModuleQuery, ErrorCodeInvalidRank, "rank",
			"invalid rank %q: must be a positive integer", raw.Rank)
	}
	count, err := parsePositive(raw.MaxResults)
	if err != nil {
		return nil, NewFieldError(ModuleQuery, ErrorCodeInvalidCount, "max_results",
			"invalid number of colleges %q: must be a positive integer", raw.MaxResults)
	}

	places := make([]string, 0, len(raw.PreferredPlaces))
	for _, p := range raw.PreferredPlaces {
		if p == "" {
			continue
		}
		places = append(places, p)
	}

	return &EligibilityQuery{
		Rank:            rank,
		Category:        ParseCategory(raw.Category),
		Gender:          ParseGender(raw.Gender),
		Branch:          strings.TrimSpace(raw.Branch),
		MaxResults:      count,
		PreferredPlaces: places,
	}, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
