package schema

import (
	"fmt"

	"github.com/haccpkit/haccp/pkg/constants"
	"github.com/haccpkit/haccp/pkg/records"
)

// Group identifiers of the default manifest.
const (
	GroupCertLivestock  = "cert-livestock"
	GroupLocalLivestock = "local-livestock"
	GroupLocalFood      = "local-food"
)

// Default returns the built-in manifest of the ten 2024 survey files read
// from constants.DefaultDataDir.
func Default() *Manifest {
	return &Manifest{
		DataDir: constants.DefaultDataDir,
		Groups: []Group{
			certLivestock(),
			localLivestock(),
			localFood(),
		},
	}
}

func certLivestock() Group {
	g := newGroup(GroupCertLivestock, constants.AuthorityCentral, constants.CategoryLivestock, []string{
		"인증번호", "업체명", "규모", "24년대상", "적용품목", "의무/자율",
		"최초인증일자", "인증시작일", "인증만기일", "지원", "인증유지여부",
	})
	// The central body's round files use the same unqualified names.
	for round := 1; round <= 2; round++ {
		g.Rounds = append(g.Rounds, g.round(round, []string{"인증번호", "총점", "심사일", "최종심사결과"}))
	}
	return g
}

func localLivestock() Group {
	g := newGroup(GroupLocalLivestock, constants.AuthorityRegional, constants.CategoryLivestock, []string{
		"인증번호", "업소명", "규모", "★조사평가대상(현재)", "유형", "의무/자율",
		"최초인증일", "인증시작일", "인증만료일", "관할지역", "취소내용(반납,만료,인증취소)",
	})
	for round := 1; round <= 4; round++ {
		g.Rounds = append(g.Rounds, g.round(round, []string{
			"인증번호",
			qualified("총점", round),
			qualified("평가일", round),
			qualified("평가결과", round),
		}))
	}
	return g
}

func localFood() Group {
	g := newGroup(GroupLocalFood, constants.AuthorityRegional, constants.CategoryFood, []string{
		"인증번호", "업체명", "규모", "평가대상(확정)", "식품종,군", "의무/자율",
		"최초인증", "인증일", "만료일", "관할청", "취소내용",
	})
	for round := 1; round <= 4; round++ {
		date := qualified("평가일", round)
		if round == 1 {
			// First-round file names its date column without the round suffix.
			date = "평가일"
		}
		g.Rounds = append(g.Rounds, g.round(round, []string{
			"인증번호",
			qualified("총점", round),
			date,
			qualified("평가결과및불능사유", round),
		}))
	}
	return g
}

func newGroup(id, authority, category string, columns []string) Group {
	return Group{
		ID:        id,
		Authority: authority,
		Category:  category,
		Registration: Source{
			ID:      id + "-info",
			Path:    RegistrationFile(authority, category),
			Kind:    KindRegistration,
			Columns: Map(columns, records.RegistrationSourceAttributes),
		},
	}
}

func (g Group) round(round int, columns []string) Source {
	return Source{
		ID:      fmt.Sprintf("%s-r%d", g.ID, round),
		Path:    EvaluationFile(g.Authority, g.Category, round),
		Kind:    KindEvaluation,
		Round:   round,
		Columns: Map(columns, records.EvaluationSourceAttributes),
	}
}

// qualified appends the round suffix used by regional-office column names.
func qualified(name string, round int) string {
	return fmt.Sprintf("%s(%s)", name, records.RoundLabel(round))
}
