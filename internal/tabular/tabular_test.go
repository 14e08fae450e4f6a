package tabular_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/shipflow"
	"github.com/katalvlaran/shipflow/batch"
	"github.com/katalvlaran/shipflow/catalog"
	"github.com/katalvlaran/shipflow/internal/tabular"
)

const prices = `shipment_company,from_country,to_country,cost,notes
UPS,Austria,Bulgaria,12.5,express
DHL, Bulgaria ,Germany,3,

FedEx,Austria,Germany,20,
`

func TestReadRows(t *testing.T) {
	rows, err := tabular.ReadRows(strings.NewReader(prices), tabular.DefaultColumns())
	require.NoError(t, err)
	require.Equal(t, []catalog.Row{
		{Carrier: "UPS", From: "Austria", To: "Bulgaria", Cost: 12.5},
		{Carrier: "DHL", From: "Bulgaria", To: "Germany", Cost: 3},
		{Carrier: "FedEx", From: "Austria", To: "Germany", Cost: 20},
	}, rows)
}

func TestReadRows_CustomColumns(t *testing.T) {
	in := "price,dst,src,carrier\n4,B,A,X\n"
	rows, err := tabular.ReadRows(strings.NewReader(in), tabular.Columns{
		Carrier: "carrier", From: "src", To: "dst", Cost: "price",
	})
	require.NoError(t, err)
	require.Equal(t, []catalog.Row{{Carrier: "X", From: "A", To: "B", Cost: 4}}, rows)
}

func TestReadRows_Errors(t *testing.T) {
	cases := map[string]struct {
		in    string
		field string
		row   int
	}{
		"empty":          {in: "", field: "header", row: -1},
		"missing column": {in: "shipment_company,from_country,cost\nX,A,1\n", field: "header", row: -1},
		"bad cost": {
			in:    "shipment_company,from_country,to_country,cost\nX,A,B,1\nX,B,C,cheap\n",
			field: "cost",
			row:   3,
		},
		"short record": {
			in:    "shipment_company,from_country,to_country,cost\nX,A\n",
			field: "record",
			row:   2,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := tabular.ReadRows(strings.NewReader(tc.in), tabular.DefaultColumns())
			require.ErrorIs(t, err, shipflow.ErrValidation)

			var ve *shipflow.ValidationError
			require.True(t, errors.As(err, &ve))
			require.Equal(t, tc.field, ve.Field)
			require.Equal(t, tc.row, ve.Row)
		})
	}
}

func records() []batch.Record {
	return []batch.Record{
		{
			From: "Austria", To: "Germany", Cost: 15.5, Hops: 2,
			Path: []catalog.ArcKey{
				{Carrier: "UPS", Origin: "Austria", Destination: "Bulgaria"},
				{Carrier: "DHL", Origin: "Bulgaria", Destination: "Germany"},
			},
		},
		{From: "Germany", To: "Austria", Cost: math.NaN(), Err: &shipflow.InfeasibleError{Source: "Germany", Sink: "Austria", Reason: "unreachable"}},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tabular.Write(&buf, tabular.CSV, records()))
	require.Equal(t,
		"from,to,cost,path,num_of_days\n"+
			`Austria,Germany,15.5,"[(UPS, Austria, Bulgaria), (DHL, Bulgaria, Germany)]",2`+"\n"+
			"Germany,Austria,,,\n",
		buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tabular.Write(&buf, tabular.JSON, records()))

	var got []tabular.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, 15.5, *got[0].Cost)
	require.Equal(t, tabular.Hop{Carrier: "DHL", From: "Bulgaria", To: "Germany"}, got[0].Path[1])
	require.Nil(t, got[1].Cost)
	require.Contains(t, got[1].Error, "Germany")
	require.Empty(t, got[1].Path)
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tabular.Write(&buf, tabular.YAML, records()))

	var got []tabular.Result
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, 2, got[0].Hops)
	require.Equal(t, "UPS", got[0].Path[0].Carrier)
	require.Nil(t, got[1].Cost)
}

func TestParseFormat(t *testing.T) {
	f, err := tabular.ParseFormat("YML")
	require.NoError(t, err)
	require.Equal(t, tabular.YAML, f)

	_, err = tabular.ParseFormat("xlsx")
	require.ErrorIs(t, err, shipflow.ErrValidation)
}
