/*
Package langdef converts textual grammar description to grammar.Grammar structure.

Grammar is described using line-oriented PEG-like language. Self-definition of this language is:
*/
//  description = {line};
//  line = [import | definition | alternatives], eol;
//  import = "import", string;
//  definition = name, ":", [alternatives];
//  alternatives = ["|"], sequence, {"|", sequence};  # leading "|" only on continuation lines
//  sequence = item, {item};
//  item = ["&" | "!"], (name | char | string | intrinsic), ["?" | "*" | "+"];
//  intrinsic = "<", [("external" | "entity"), ":"], name, ">";
/*
Description must be a valid UTF-8 text. Spaces, horizontal tabulations, and carriage returns
are insignificant, line feeds terminate lines. Description may contain line comments starting with #.

Name is a sequence of latin letters, digits, underscores, and hyphens, starting with letter or underscore.
Names are case-sensitive.

A line starting with a name followed by colon defines a rule. The first rule of the primary
description is the start rule unless overridden by Loader.Start. A line that is neither
a definition nor an import contains more alternatives of the last defined rule, e.g.

	expr:  term '+' expr
	       term
	term:  <number> | '(' expr ')'

Alternatives are tried in order, the first matching one wins.

Items are:

	'c'              single character literal, tagged "character" and "literal"
	"text"           string literal, tagged "string" and "literal"
	name             reference to a rule
	<name>           built-in intrinsic, tagged "intrinsic"
	<external:name>  predicate registered by the host, tagged "external" and "intrinsic"
	<entity:name>    one of values registered by the host for the entity, tagged "entity" and "intrinsic"

Both literal kinds may contain escape sequences: \\ \" \' \n \r \t \xHH \uHHHH \UHHHHHHHH.
Empty literals are not allowed.

Built-in intrinsics are:

	character  any single character
	digit      decimal digit
	hex        hexadecimal digit
	alpha      letter
	alnum      letter or digit
	punct      punctuation or symbol character
	ws         non-empty run of white space (line feeds included)
	sep        non-empty run of spaces and tabs
	eol        line break: \r\n, \n, or \r
	eos        end of text, does not consume anything
	sol        start of line, does not consume anything
	word       non-empty run of letters, digits, and underscores
	number     integer or decimal number with optional sign and exponent
	quoted     text in single or double quotes, quote may be escaped with backslash
	remainder  all remaining text, at least one character

Unknown intrinsic names are allowed unless Loader.Strict is set, such intrinsics never match.

Suffixes "?", "*", and "+" make the item optional, repeated zero or more times, and repeated
one or more times. Prefixes "&" and "!" turn the item into positive or negative lookahead:
it does not consume text and does not produce nodes.

Import line merges rules defined in another description file; path is relative to the importing file.
Each file is loaded at most once. Imported rules follow the rules of the primary description.
Rule name may be defined only once across all loaded files.
*/
package langdef
