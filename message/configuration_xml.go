package message

import "encoding/xml"

// Setting is one key/value pair of a SetConfiguration/CurrentConfiguration
// payload. The embedder's NetworkConfiguration fields (hostName, port,
// retryDelaySec, checkAlivePeriodSec, ...) are opaque to the core per
// spec.md §1, so they round-trip as a flat attribute bag rather than a
// fixed Go struct.
type Setting struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

// MarshalXML renders Settings as a sequence of <Setting Name="" Value=""/>
// child elements, sorted by name for deterministic output (round-trip law
// in spec.md §8 requires serialize(parse(doc)) stability).
func (d SetConfigurationData) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return marshalSettings(e, start, "SetConfiguration", d.Settings)
}

func (d *SetConfigurationData) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	settings, err := unmarshalSettings(dec, start)
	if err != nil {
		return err
	}
	d.XMLName = start.Name
	d.Settings = settings
	return nil
}

func (d CurrentConfigurationData) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return marshalSettings(e, start, "CurrentConfiguration", d.Settings)
}

func (d *CurrentConfigurationData) UnmarshalXML(dec *xml.Decoder, start xml.StartElement) error {
	settings, err := unmarshalSettings(dec, start)
	if err != nil {
		return err
	}
	d.XMLName = start.Name
	d.Settings = settings
	return nil
}

func marshalSettings(e *xml.Encoder, start xml.StartElement, name string, settings map[string]string) error {
	start.Name = xml.Name{Local: name}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	names := sortedKeys(settings)
	for _, k := range names {
		if err := e.Encode(Setting{Name: k, Value: settings[k]}); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func unmarshalSettings(dec *xml.Decoder, start xml.StartElement) (map[string]string, error) {
	settings := make(map[string]string)
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var s Setting
			if err := dec.DecodeElement(&s, &t); err != nil {
				return nil, err
			}
			settings[s.Name] = s.Value
		case xml.EndElement:
			if t.Name == start.Name {
				return settings, nil
			}
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
