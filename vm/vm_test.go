package vm

import (
	"strings"
	"testing"

	"github.com/pl0-lang/pl0/codegen"
	"github.com/pl0-lang/pl0/lexer"
)

func testCompile(t *testing.T, src string) []codegen.Instruction {
	t.Helper()

	toks, err := lexer.Lex(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	code, err := codegen.Generate(toks)
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func TestVM_Run(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		input   []int
		output  string
	}{
		{
			caption: "a loop sums the numbers one through five",
			src: `
var n, sum;
begin
    n := 5;
    sum := 0;
    while n > 0 do
    begin
        sum := sum + n;
        n := n - 1
    end;
    write(sum)
end.
`,
			output: "15",
		},
		{
			caption: "a taken branch writes, an untaken branch does not",
			src: `
var x, y;
begin
    x := 10;
    y := 20;
    if x < y then write(1);
    if x > y then write(2)
end.
`,
			output: "1",
		},
		{
			caption: "a procedure mutates an outer variable through the static link",
			src: `
var x;
procedure inc;
begin
    x := x + 1
end;
begin
    x := 10;
    call inc;
    call inc;
    write(x)
end.
`,
			output: "12",
		},
		{
			caption: "reads are served from the input buffer in order",
			src: `
var x, y;
begin
    read(x);
    read(y);
    write(x + y)
end.
`,
			input:  []int{40, 2},
			output: "42",
		},
		{
			caption: "an exhausted input buffer reads zeroes",
			src: `
var x;
begin
    read(x);
    write(x + 1)
end.
`,
			output: "1",
		},
		{
			caption: "odd takes the true branch for odd values only",
			src: `
var x;
begin
    x := 7;
    if odd x then write(1);
    x := 8;
    if odd x then write(2)
end.
`,
			output: "1",
		},
		{
			caption: "each write becomes one output line",
			src: `
var i;
begin
    i := 1;
    while i <= 3 do
    begin
        write(i * i);
        i := i + 1
    end
end.
`,
			output: "1\n4\n9",
		},
		{
			caption: "a unary minus negates",
			src: `
var x, y;
begin
    x := 10;
    y := -x;
    write(y)
end.
`,
			output: "-10",
		},
		{
			caption: "nested procedures reach the globals of both levels",
			src: `
var x;
procedure outer;
var y;
    procedure inner;
    begin
        x := x + y
    end;
begin
    y := 5;
    call inner
end;
begin
    x := 1;
    call outer;
    write(x)
end.
`,
			output: "6",
		},
		{
			caption: "a program without writes outputs nothing",
			src: `
var x;
begin
    x := 1
end.
`,
			output: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			m := New(testCompile(t, tt.src), tt.input)
			out, err := m.Run()
			if err != nil {
				t.Fatal(err)
			}
			if out != tt.output {
				t.Errorf("unexpected output; want: %#v, got: %#v", tt.output, out)
			}
		})
	}
}

func TestVM_DivisionByZero(t *testing.T) {
	src := `
var x;
begin
    x := 1 / 0
end.
`
	m := New(testCompile(t, src), nil)
	_, err := m.Run()
	if err == nil {
		t.Fatalf("a division by zero must be reported")
	}
	rtErr, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("unexpected error type: %T", err)
	}
	if !strings.Contains(rtErr.Message, "division by zero") {
		t.Fatalf("unexpected message: %v", rtErr.Message)
	}
}
