package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJava_Skeletonize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "method body",
			src:  "public class Test { public void method() { System.out.println(1); } }",
			want: "public class Test { public void method() ; }",
		},
		{
			name: "comments",
			src:  "/** Doc. */\nclass A {\n  // note\n  int x; /* tail */\n}\n",
			want: "\nclass A {\n  \n  int x; \n}\n",
		},
		{
			name: "comment between words",
			src:  "class A { int/**/x; }",
			want: "class A { int x; }",
		},
		{
			name: "constructor and throws clause",
			src:  "class A { A(int v) { this.v = v; } public <T> T id(T t) throws E1, E2 { return t; } }",
			want: "class A { A(int v) ; public <T> T id(T t) throws E1, E2 ; }",
		},
		{
			name: "abstract and interface methods",
			src:  "interface I { void a(); default void b() { a(); } }",
			want: "interface I { void a(); default void b() ; }",
		},
		{
			name: "nested class",
			src:  "class A { static class B { void f() { } } }",
			want: "class A { static class B { void f() ; } }",
		},
		{
			name: "anonymous class in field",
			src:  "class A { Runnable r = new Runnable() { public void run() { go(); } }; }",
			want: "class A { Runnable r = new Runnable() { public void run() ; }; }",
		},
		{
			name: "lambda block kept",
			src:  "class A { Runnable r = () -> { go(); }; }",
			want: "class A { Runnable r = () -> { go(); }; }",
		},
		{
			name: "switch expression kept",
			src:  "class A { int v = switch (k) { case 1 -> 2; default -> 3; }; void f() { } }",
			want: "class A { int v = switch (k) { case 1 -> 2; default -> 3; }; void f() ; }",
		},
		{
			name: "initializers kept",
			src:  "class A { static { init(); } { count++; } int[] a = {1, 2}; }",
			want: "class A { static { init(); } { count++; } int[] a = {1, 2}; }",
		},
		{
			name: "enum constants and members",
			src:  "enum E { A { void f() { x(); } }, B(2); E() { } void g() { y(); } }",
			want: "enum E { A { void f() ; }, B(2); E() ; void g() ; }",
		},
		{
			name: "simple enum",
			src:  "enum Color { RED, GREEN }",
			want: "enum Color { RED, GREEN }",
		},
		{
			name: "record",
			src:  "record P(int x, int y) { P { check(); } int sum() { return x + y; } }",
			want: "record P(int x, int y) { P { check(); } int sum() ; }",
		},
		{
			name: "annotations",
			src:  "@interface Ann { String value() default \"x\"; }\nclass A { @SuppressWarnings({\"a\", \"b\"}) void f() { } }",
			want: "@interface Ann { String value() default \"x\"; }\nclass A { @SuppressWarnings({\"a\", \"b\"}) void f() ; }",
		},
		{
			name: "literals are opaque",
			src:  "class A { String s = \"{ // not a comment }\"; char c = '}'; void f() { String t = \"}\"; } }",
			want: "class A { String s = \"{ // not a comment }\"; char c = '}'; void f() ; }",
		},
		{
			name: "text block",
			src:  "class A { String s = \"\"\"\n  /* text */ {\n  \"\"\"; }",
			want: "class A { String s = \"\"\"\n  /* text */ {\n  \"\"\"; }",
		},
		{
			name: "class literal is not a declaration",
			src:  "class A { Class<?> k = A.class; void f() { } }",
			want: "class A { Class<?> k = A.class; void f() ; }",
		},
		{
			name: "package and imports",
			src:  "package a.b;\nimport java.util.List;\nclass A {}\n",
			want: "package a.b;\nimport java.util.List;\nclass A {}\n",
		},
		{
			name: "empty input",
			src:  "",
			want: "",
		},
	}

	j := NewJava()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := j.Skeletonize(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJava_Idempotent(t *testing.T) {
	t.Parallel()

	src := `package demo;

/**
 * Service docs.
 */
public class Service implements Runnable {
    private static final int LIMIT = 10; // max
    private final Runnable hook = new Runnable() {
        @Override
        public void run() { System.out.println("hook"); }
    };

    public Service() {
        super();
    }

    @Override
    public void run() {
        for (int i = 0; i < LIMIT; i++) {
            step(i);
        }
    }

    enum Mode { FAST { int cost() { return 1; } }, SLOW; int cost() { return 2; } }
}
`
	j := NewJava()
	once, err := j.Skeletonize(src)
	require.NoError(t, err)
	twice, err := j.Skeletonize(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Contains(t, once, "public class Service implements Runnable")
	assert.Contains(t, once, "public Service() ;")
	assert.Contains(t, once, "public void run() ;")
	assert.NotContains(t, once, "System.out.println")
	assert.NotContains(t, once, "step(i)")
	assert.NotContains(t, once, "Service docs")
	assert.NotContains(t, once, "// max")
}

func TestJava_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"missing closing brace", "class A {"},
		{"unclosed method body", "class A { void f() { }"},
		{"extra closing brace", "class A { } }"},
		{"unterminated string", "class A { String s = \"abc; }"},
		{"unterminated block comment", "class A { } /* open"},
		{"unterminated char", "class A { char c = 'x"},
		{"mismatched paren", "class A { void f(int a] { } }"},
	}

	j := NewJava()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Skeletonize(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestJava_Language(t *testing.T) {
	assert.Equal(t, "java", NewJava().Language())
}
