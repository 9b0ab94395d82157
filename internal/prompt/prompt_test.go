package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_ContainsTaskAndConstraints(t *testing.T) {
	b := NewBuilder()

	p, err := b.Build(GenerateContext{Task: "print current date"})
	require.NoError(t, err)

	assert.Contains(t, p, "Write a Python script to print current date")
	assert.Contains(t, p, "Return ONLY valid Python code")
	assert.Contains(t, p, "No functions (flat script)")
	assert.Contains(t, p, "Do NOT use 'pip install'")
	assert.Contains(t, p, "standard libraries")
}

func TestBuild_EmptyTask(t *testing.T) {
	b := NewBuilder()

	_, err := b.Build(GenerateContext{Task: "  "})
	assert.Error(t, err)
}

func TestBuildRepair_EmbedsCodeAndErrorLog(t *testing.T) {
	b := NewBuilder()

	p, err := b.BuildRepair(RepairContext{
		Task:       "print current date",
		BrokenCode: "print(datetime.now())",
		ErrorLog:   "NameError: name 'datetime' is not defined",
	})
	require.NoError(t, err)

	assert.Contains(t, p, "Senior Python Engineer")
	assert.Contains(t, p, "TASK: print current date")
	assert.Contains(t, p, "--- BROKEN CODE ---\nprint(datetime.now())")
	assert.Contains(t, p, "--- ERROR LOG ---\nNameError: name 'datetime' is not defined")
	assert.Contains(t, p, "Return ONLY the valid Python code block")
}

func TestBuildRepair_MissingFields(t *testing.T) {
	b := NewBuilder()

	_, err := b.BuildRepair(RepairContext{BrokenCode: "x", ErrorLog: "y"})
	assert.Error(t, err)

	_, err = b.BuildRepair(RepairContext{Task: "t", ErrorLog: "y"})
	assert.Error(t, err)

	_, err = b.BuildRepair(RepairContext{Task: "t", BrokenCode: "x"})
	assert.Error(t, err)
}
