package notation

import (
	"encoding/xml"
	"math"

	"github.com/scschwa/nord-stage-3-interface/constants"
)

const doctype = `<!DOCTYPE score-partwise PUBLIC "-//Recordare//DTD MusicXML 3.1 Partwise//EN" "http://www.musicxml.org/dtds/partwise.dtd">` + "\n"

// encoder-side mirror of the score-partwise subset we emit: one part,
// one staff, attributes and tempo declared once at measure 1
type xmlScore struct {
	XMLName        xml.Name          `xml:"score-partwise"`
	Version        string            `xml:"version,attr"`
	Identification xmlIdentification `xml:"identification"`
	PartList       xmlPartList       `xml:"part-list"`
	Parts          []xmlPart         `xml:"part"`
}

type xmlIdentification struct {
	Encoding xmlEncoding `xml:"encoding"`
}

type xmlEncoding struct {
	Software string `xml:"software"`
}

type xmlPartList struct {
	ScoreParts []xmlScorePart `xml:"score-part"`
}

type xmlScorePart struct {
	ID       string `xml:"id,attr"`
	PartName string `xml:"part-name"`
}

type xmlPart struct {
	ID       string       `xml:"id,attr"`
	Measures []xmlMeasure `xml:"measure"`
}

type xmlMeasure struct {
	Number    int            `xml:"number,attr"`
	Attrs     *xmlAttributes `xml:"attributes,omitempty"`
	Direction *xmlDirection  `xml:"direction,omitempty"`
	Notes     []xmlNote      `xml:"note"`
}

type xmlAttributes struct {
	Divisions int     `xml:"divisions"`
	Key       xmlKey  `xml:"key"`
	Time      xmlTime `xml:"time"`
	Clef      xmlClef `xml:"clef"`
}

type xmlKey struct {
	Fifths int `xml:"fifths"`
}

type xmlTime struct {
	Beats    int `xml:"beats"`
	BeatType int `xml:"beat-type"`
}

type xmlClef struct {
	Sign string `xml:"sign"`
	Line int    `xml:"line"`
}

type xmlDirection struct {
	Sound xmlSound `xml:"sound"`
}

type xmlSound struct {
	Tempo int `xml:"tempo,attr"`
}

type xmlNote struct {
	Chord    *xmlEmpty  `xml:"chord,omitempty"`
	Pitch    *xmlPitch  `xml:"pitch,omitempty"`
	Rest     *xmlEmpty  `xml:"rest,omitempty"`
	Duration int        `xml:"duration"`
	Ties     []xmlTie   `xml:"tie,omitempty"`
	Type     string     `xml:"type,omitempty"`
	Dots     []xmlEmpty `xml:"dot,omitempty"`
}

type xmlPitch struct {
	Step   string `xml:"step"`
	Alter  int    `xml:"alter,omitempty"`
	Octave int    `xml:"octave"`
}

type xmlTie struct {
	Type string `xml:"type,attr"`
}

type xmlEmpty struct{}

// MusicXML renders the document as a score-partwise MusicXML byte
// sequence. Output is deterministic for a given document.
func MusicXML(doc Document) ([]byte, error) {
	score := xmlScore{
		Version: "3.1",
		Identification: xmlIdentification{
			Encoding: xmlEncoding{Software: "nord-stage-3-interface " + constants.Version},
		},
		PartList: xmlPartList{
			ScoreParts: []xmlScorePart{{ID: "P1", PartName: "Keyboard"}},
		},
		Parts: []xmlPart{{ID: "P1"}},
	}

	for i, m := range doc.Measures {
		xm := xmlMeasure{Number: m.Number}
		if i == 0 {
			xm.Attrs = &xmlAttributes{
				Divisions: doc.Divisions,
				Key:       xmlKey{Fifths: 0},
				Time:      xmlTime{Beats: doc.BeatsPerMeasure, BeatType: 4},
				Clef:      xmlClef{Sign: "G", Line: 2},
			}
			xm.Direction = &xmlDirection{Sound: xmlSound{Tempo: doc.BPM}}
		}
		for _, el := range m.Elements {
			xm.Notes = append(xm.Notes, encodeElement(doc, el)...)
		}
		score.Parts[0].Measures = append(score.Parts[0].Measures, xm)
	}

	body, err := xml.MarshalIndent(&score, "", "  ")
	if err != nil {
		return nil, err
	}

	res := []byte(xml.Header + doctype)
	res = append(res, body...)
	res = append(res, '\n')
	return res, nil
}

func encodeElement(doc Document, el Element) []xmlNote {
	duration := int(math.Round(el.Beats * float64(doc.Divisions)))
	if duration < 1 {
		duration = 1
	}

	if el.Rest {
		n := xmlNote{
			Rest:     &xmlEmpty{},
			Duration: duration,
			Type:     el.Type,
		}
		n.Dots = make([]xmlEmpty, el.Dots)
		return []xmlNote{n}
	}

	var ties []xmlTie
	if el.TieStop {
		ties = append(ties, xmlTie{Type: "stop"})
	}
	if el.TieStart {
		ties = append(ties, xmlTie{Type: "start"})
	}

	res := make([]xmlNote, 0, len(el.Notes))
	for i, p := range el.Notes {
		n := xmlNote{
			Pitch: &xmlPitch{
				Step:   p.Step,
				Alter:  p.Alter,
				Octave: p.Octave,
			},
			Duration: duration,
			Ties:     ties,
			Type:     el.Type,
		}
		n.Dots = make([]xmlEmpty, el.Dots)
		if i > 0 {
			// chord members after the first
			n.Chord = &xmlEmpty{}
		}
		res = append(res, n)
	}
	return res
}
