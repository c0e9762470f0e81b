package subcmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/dokeraj/androtainer/kernel/model"
)

func TestResolve(t *testing.T) {
	s := model.Snapshot{
		{Id: "aaaa1111", Name: "web"},
		{Id: "bbbb2222", Name: "db"},
	}

	cases := map[string]int{
		"aaaa1111": 0,
		"db":       1,
		"bbbb":     1,
		"0":        0,
		"1":        1,
	}
	for ref, want := range cases {
		got, err := Resolve(s, ref)
		if err != nil {
			t.Errorf("Resolve(%s) failed: %v", ref, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%s) = %d, want %d", ref, got, want)
		}
	}

	for _, ref := range []string{"2", "-1", "zzzz", ""} {
		if _, err := Resolve(s, ref); err == nil {
			t.Errorf("Resolve(%s) should fail", ref)
		}
	}
}

func TestResolveToken(t *testing.T) {
	token, err := resolveToken("flag", "ANDROTAINER_TEST_TOKEN", strings.NewReader(""), &bytes.Buffer{})
	if err != nil || token != "flag" {
		t.Errorf("expected flag token, got '%s' (%v)", token, err)
	}

	t.Setenv("ANDROTAINER_TEST_TOKEN", "from-env")
	token, err = resolveToken("", "ANDROTAINER_TEST_TOKEN", strings.NewReader(""), &bytes.Buffer{})
	if err != nil || token != "from-env" {
		t.Errorf("expected env token, got '%s' (%v)", token, err)
	}

	if _, err := resolveToken("", "", strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Error("expected error when no token source is available")
	}
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{
		"y\n":   true,
		"YES\n": true,
		"n\n":   false,
		"\n":    false,
		"":      false,
	}
	for input, want := range cases {
		var out bytes.Buffer
		if got := confirm(strings.NewReader(input), &out, "Remove?"); got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
		if out.String() != "Remove? [y/N] " {
			t.Errorf("unexpected prompt '%s'", out.String())
		}
	}
}

func TestGlobalOptions_Profile(t *testing.T) {
	o := &GlobalOptions{
		config: &model.Config{
			Current: "home",
			Profiles: map[string]*model.ProfileConfig{
				"home": {BaseURL: "http://home", EndpointId: 2, TokenEnv: "HOME_TOKEN"},
			},
		},
		EndpointId: 5,
	}

	name, p, err := o.profile()
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if name != "home" || p.BaseURL != "http://home" || p.EndpointId != 5 {
		t.Errorf("unexpected profile %s %+v", name, p)
	}
	if o.config.Profiles["home"].EndpointId != 2 {
		t.Error("override must not modify the configured profile")
	}

	o = &GlobalOptions{config: &model.Config{}, BaseURL: "http://adhoc"}
	name, p, err = o.profile()
	if err != nil || name != "default" || p.BaseURL != "http://adhoc" {
		t.Errorf("unexpected ad hoc profile %s %+v (%v)", name, p, err)
	}

	o = &GlobalOptions{config: &model.Config{}, Profile: "missing"}
	if _, _, err := o.profile(); err == nil {
		t.Error("expected error for missing profile")
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}
