package models

import "testing"

func TestParseSkill(t *testing.T) {
	tests := []struct {
		in      string
		want    Skill
		wantErr bool
	}{
		{"/plan", SkillPlan, false},
		{"plan", SkillPlan, false},
		{"RESEARCH", SkillResearch, false},
		{" /lint ", SkillLint, false},
		{"/deploy", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSkill(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSkill(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSkill(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSkill_Label(t *testing.T) {
	if got := SkillOrchestrate.Label(); got != "Orchestrate" {
		t.Errorf("Label() = %q, want %q", got, "Orchestrate")
	}
}

func TestAllSkills_Distinct(t *testing.T) {
	seen := make(map[Skill]bool)
	for _, s := range AllSkills() {
		if seen[s] {
			t.Errorf("duplicate skill %q", s)
		}
		seen[s] = true
	}
	if len(seen) != 11 {
		t.Errorf("expected 11 distinct skills, got %d", len(seen))
	}
}
