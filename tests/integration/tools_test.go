// Integration tests for the input-generation and post-processing commands.
package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	result := env.MustRunInk(t, "version")
	if !strings.HasPrefix(result.Stdout, "ink v") {
		t.Errorf("unexpected version output: %s", result.Stdout)
	}
}

func TestShengbteControl(t *testing.T) {
	env := newTestEnv(t)
	env.WriteFile(t, "POSCAR", testPoscar)

	env.MustRunInk(t, "shengbte", "POSCAR", "4", "4", "4")

	raw, err := os.ReadFile(filepath.Join(env.Dir, "CONTROL"))
	if err != nil {
		t.Fatalf("read CONTROL: %v", err)
	}
	control := string(raw)
	for _, want := range []string{
		"&allocations",
		"nelements=1",
		"natoms=2",
		"ngrid(:)=15 15 15",
		"&crystal",
		"lfactor=0.1",
		"elements=\"Si\"",
		"scell(:)=4 4 4",
		"&parameters",
		"T=300",
		"scalebroad=0.5",
		"&flags",
		"convergence=.TRUE.",
	} {
		if !strings.Contains(control, want) {
			t.Errorf("CONTROL missing %q\n%s", want, control)
		}
	}
}

func TestShengbteTemperatureSweep(t *testing.T) {
	env := newTestEnv(t)
	env.WriteFile(t, "POSCAR", testPoscar)

	env.MustRunInk(t, "shengbte", "POSCAR", "4", "4", "4",
		"--t-min", "200", "--t-max", "800", "--t-step", "50")

	raw, err := os.ReadFile(filepath.Join(env.Dir, "CONTROL"))
	if err != nil {
		t.Fatalf("read CONTROL: %v", err)
	}
	control := string(raw)
	for _, want := range []string{"T_min=200", "T_max=800", "T_step=50"} {
		if !strings.Contains(control, want) {
			t.Errorf("CONTROL missing %q", want)
		}
	}
}

func TestCollect(t *testing.T) {
	env := newTestEnv(t)
	env.WriteFile(t, "POSCAR", testPoscar)
	env.WriteFile(t, "notes.txt", "not a structure\n")

	result := env.MustRunInk(t, "collect", "POSCAR", "notes.txt")
	if !strings.Contains(result.Stdout, "wrote 1 structures") {
		t.Errorf("unexpected collect output: %s", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "skip notes.txt") {
		t.Errorf("unreadable file not reported: %s", result.Stderr)
	}

	raw, err := os.ReadFile(filepath.Join(env.Dir, "dftsets.xyz"))
	if err != nil {
		t.Fatalf("read dftsets.xyz: %v", err)
	}
	if !strings.HasPrefix(string(raw), "2\n") {
		t.Errorf("unexpected xyz content: %s", raw)
	}
}

func TestExportBte(t *testing.T) {
	env := newTestEnv(t)
	env.WriteFile(t, "run/BTE.omega",
		"0.0 0.0 0.0 31.4159 31.4159 31.4159\n"+
			"6.2831 6.2831 12.5663 25.1327 25.1327 31.4159\n")
	env.WriteFile(t, "run/BTE.KappaTensorVsT_CONV",
		"300.0 130.1 0.0 0.0 0.0 130.1 0.0 0.0 0.0 130.1 12\n")

	result := env.MustRunInk(t, "export", "bte", "run")
	if !strings.Contains(result.Stdout, "omega.csv") || !strings.Contains(result.Stdout, "kappa.csv") {
		t.Errorf("unexpected export output: %s", result.Stdout)
	}

	kappa, err := os.ReadFile(filepath.Join(env.Dir, "kappa.csv"))
	if err != nil {
		t.Fatalf("read kappa.csv: %v", err)
	}
	if !strings.Contains(string(kappa), "T,xx,xy,xz,yx,yy,yz,zx,zy,zz,iter") {
		t.Errorf("unexpected kappa.csv header: %s", kappa)
	}
	if !strings.Contains(string(kappa), "300,130.1") {
		t.Errorf("unexpected kappa.csv row: %s", kappa)
	}
}

func TestExportBteEmptyDir(t *testing.T) {
	env := newTestEnv(t)
	if err := os.MkdirAll(filepath.Join(env.Dir, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := env.RunInk(t, "export", "bte", "empty")
	if result.ExitCode == 0 {
		t.Error("export of empty directory should fail")
	}
}
