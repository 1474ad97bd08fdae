package respmerge

import "encoding/json"

// parseResponse decodes a single origin's GraphQL response envelope,
// distinguishing a missing "data" key (hasData=false) from an explicit
// "data": null (hasData=true, dataIsNull=true) from actual data
// (hasData=true, dataIsNull=false, data populated) — callers need that
// distinction to tell "this bucket ran but returned nothing" apart from
// "this bucket's origin never responded with a data key at all".
func parseResponse(raw []byte) (hasData, dataIsNull bool, data map[string]interface{}, errs []json.RawMessage, extensions map[string]json.RawMessage, err error) {
	var envelope map[string]json.RawMessage
	if err = json.Unmarshal(raw, &envelope); err != nil {
		return false, false, nil, nil, nil, err
	}

	if dataRaw, ok := envelope["data"]; ok {
		hasData = true
		if string(dataRaw) == "null" {
			dataIsNull = true
		} else if err = json.Unmarshal(dataRaw, &data); err != nil {
			return false, false, nil, nil, nil, err
		}
	}

	if errsRaw, ok := envelope["errors"]; ok {
		if err = json.Unmarshal(errsRaw, &errs); err != nil {
			return false, false, nil, nil, nil, err
		}
	}

	if extRaw, ok := envelope["extensions"]; ok {
		if err = json.Unmarshal(extRaw, &extensions); err != nil {
			return false, false, nil, nil, nil, err
		}
	}

	return hasData, dataIsNull, data, errs, extensions, nil
}
