package cli

import (
	"fmt"
	"io"
	"os"
)

// Output receives every coloured message. Tests swap it for a buffer.
var Output io.Writer = os.Stdout

func paint(colour, message string, newline bool) {
	line := colour + message + Reset
	if newline {
		line += "\n"
	}

	fmt.Fprint(Output, line)
}

func Error(message string)     { paint(RedColour, message, false) }
func Errorln(message string)   { paint(RedColour, message, true) }
func Success(message string)   { paint(GreenColour, message, false) }
func Successln(message string) { paint(GreenColour, message, true) }
func Warning(message string)   { paint(YellowColour, message, false) }
func Warningln(message string) { paint(YellowColour, message, true) }
func Magenta(message string)   { paint(MagentaColour, message, false) }
func Magentaln(message string) { paint(MagentaColour, message, true) }
func Blue(message string)      { paint(BlueColour, message, false) }
func Blueln(message string)    { paint(BlueColour, message, true) }
func Cyan(message string)      { paint(CyanColour, message, false) }
func Cyanln(message string)    { paint(CyanColour, message, true) }
func Gray(message string)      { paint(GrayColour, message, false) }
func Grayln(message string)    { paint(GrayColour, message, true) }
