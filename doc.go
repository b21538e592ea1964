// incremental s-expression reader
//
// the reader turns a live, chunked text stream into a sequence of data and
// can suspend whenever the buffered text is a valid but unfinished prefix of
// a datum. Parse never blocks: it reports ErrIncomplete and the caller (see
// Stream) appends the next chunk and tries the whole buffer again.
//
// every token that could still grow is incomplete at the end of the buffer,
// including symbols and numbers: "12" alone is incomplete, "12\n" is the
// integer 12. this keeps chunk boundaries from splitting tokens.
//
// examples:
//
//   (define (f x) '(x . #t)) #(1 #x-ff "a\tb") #| skipped |# #;(also skipped) sym
//
// BNF:
//  <datum>         :: <ws>* ( <quote> | <list> | <comment> | <sharp> | <number> | <text> | <symbol> ) ;
//
//  <quote>         :: "'" <datum> ;
//  <list>          :: "(" <ws>* ( <datum> <ws>* )* ( "." <ws>* <datum> <ws>* )? ")" ;
//
//  <comment>       :: <block-comment> | <line-comment> | <datum-comment> ;
//  <block-comment> :: "#|" <any-char>* "|#" ;
//  <line-comment>  :: ";" <any-char-but-newline>* "\n" ;
//  <datum-comment> :: "#;" <datum> ;
//
//  <sharp>         :: "#" ( "f" | "t" | "b" <digits-2> | "o" <digits-8>
//                        | "d" <digits-10> | "x" <digits-16>
//                        | "(" ( <ws>* <datum> )* <ws>* ")" ) ;
//  <digits-N>      :: "-"? <digit-N>+ ;
//  <number>        :: "-"? <decimal-digit>+ ;
//
//  <text>          :: "\"" ( <text-char> | <escape> )* "\"" ;
//  <text-char>     :: <any char except "\\", "\""> ;
//  <escape>        :: "\\" ( "a" | "b" | "n" | "r" | "t" | "\"" | "\\" | "|" ) ;
//
//  <symbol>        :: <symbol-char>+ ;  the lone symbol "." is rejected
//  <symbol-char>   :: <any char except whitespace, "'", "(", ")", "#", "\""> ;
//
// the sharp letters are case-insensitive. integers are signed 64-bit; a
// literal outside that range is a syntax error. comments and text are only
// recognized by FullParser; BasicParser reads the remaining grammar.

package sexp
