package script

import (
	"github.com/dekarrin/marzipan/internal/peg"
	"github.com/dekarrin/marzipan/internal/pegmeta"
)

// grammarSource is the script line grammar, spec section 4.3, written in the
// meta-language from section 4.2. It is parsed and compiled once at package
// init via pegmeta, per design note (b): no generated source is checked in
// for this grammar, since it changes along with the rest of this package.
// cmd/mzpgen and pegmeta.Generate exist for callers that want the other
// option (an offline, dependency-free .go file).
const grammarSource = `
line          = label_line / statement / text ;

label_line    = ":" label eol_trailing ;

statement     = stmt_body eol_trailing ;
stmt_body     = (prefix_word ws)+ command? / command ;

command       = "#" (compound_command / send_command / simple_command / simple_send) ;

compound_command = if_command / give_command / take_command / try_command ;

if_command    = "if"i eow ws message (ws command)? ;
give_command  = "give"i eow ws word (ws count)? ;
take_command  = "take"i eow ws word (ws count)? ;
try_command   = "try"i eow ws message ;

send_command  = "send"i eow ws message ;

simple_send   = message ;

simple_command = simple_keyword eow (ws rest_of_line)? ;

simple_keyword = "become"i / "bind"i / "change"i / "char"i / "clear"i / "cycle"i
                / "die"i / "endgame"i / "end"i / "go"i / "idle"i / "lock"i
                / "play"i / "put"i / "restart"i / "restore"i / "set"i
                / "shoot"i / "throwstar"i / "unlock"i / "walk"i / "zap"i ;

prefix_word   = "north"i / "south"i / "east"i / "west"i / "seek"i / "flow"i
              / "rndp"i / "rnd"i / "ccw"i / "cw"i / "opp"i / "n"i / "s"i / "e"i / "w"i ;

label         = #Label:(namespace? (label_name / #Anon:"@")) ;
namespace     = #Namespace:label_word "~" ;
label_name    = label_local / label_global label_local? ;
label_global  = #Global:label_word ;
label_local   = "." #Local:label_word ;

message       = #Reference:(recipient? #Label:message_name) ;
recipient     = #Recipient:word ":" ;
message_name  = namespace? (label_name / #Anon:anon_message) ;
anon_message  = "@" ("b" / "f") ;

label_word    = ('a'..'z'i / "_") ('a'..'z'i / '0'..'9' / "_")* ;
word          = label_word ;
eow           = !('a'..'z'i / '0'..'9' / "_") ;

ws            = (" " / "\t")+ ;
count         = ('0'..'9')+ ;
rest_of_line  = (!"\n" ANY)* ;
eol_trailing  = ws? (#WarnTrailing:(!"\n" ANY)+)? ;
text          = !("#" / "/" / "?") (!"\n" ANY)* ;
`

var ruleset pegmeta.Ruleset[CaptureTag]

func init() {
	g, err := pegmeta.ParseGrammar(grammarSource)
	if err != nil {
		panic("script: grammar source failed to parse: " + err.Error())
	}
	ruleset = pegmeta.Compile(g, tagByName)
}

// parseLine runs the "line" rule against a single line of script source (no
// trailing "\n"). On success it returns the ParseState holding the line's
// capture buffer; the caller walks it with peg.Forest.
func parseLine(line string) (*peg.ParseState[CaptureTag], bool) {
	p := peg.New[CaptureTag](line)
	ok := ruleset.Parse("line", p)
	return p, ok
}
