package profile

import (
	"testing"
	"time"

	"github.com/arloliu/go-instrument/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_Totality(t *testing.T) {
	for _, lang := range []Language{Scpi, Tsp} {
		t.Run(lang.String(), func(t *testing.T) {
			p := For(lang)
			assert.Equal(t, lang, p.Language)

			cmds := p.Commands()
			assert.Len(t, cmds, 35)
			// the essentials are defined in both dialects
			for _, name := range []string{
				"ClearExecutionStateCommand",
				"ResetKnownStateCommand",
				"IdentityQueryCommand",
				"OperationCompletedQueryCommand",
				"OperationCompletedReplyMessage",
				"ServiceRequestStatusQueryCommand",
				"ServiceRequestEnableCommandFormat",
				"StandardEventEnableCommandFormat",
				"ClearErrorQueueCommand",
				"NoErrorCompoundMessage",
			} {
				assert.NotEmpty(t, cmds[name], name)
			}
			assert.NotEmpty(t, p.ErrorDequeueCommand())
			assert.Equal(t, status.DefaultBitmasks(), p.Bitmasks)
		})
	}
}

func TestFor_Flags(t *testing.T) {
	scpi := For(Scpi)
	assert.False(t, scpi.SplitCommonCommands)
	assert.False(t, scpi.StatusClearDistractive)
	assert.True(t, scpi.ClearsDeviceStructures)

	tsp := For(Tsp)
	assert.True(t, tsp.SplitCommonCommands)
	assert.True(t, tsp.StatusClearDistractive)
	assert.False(t, tsp.ClearsDeviceStructures)
}

func TestFor_SwitchingOverwritesEveryField(t *testing.T) {
	p := For(Tsp)
	p.ClearErrorQueueCommand = "custom"
	p = For(Scpi)

	assert.Equal(t, For(Scpi), p)
	assert.Equal(t, ":STAT:QUE:CLEAR", p.ClearErrorQueueCommand)

	// For returns independent copies
	a := For(Scpi)
	a.IdentityQueryCommand = ""
	assert.Equal(t, "*IDN?", For(Scpi).IdentityQueryCommand)
}

func TestErrorDequeueCommand_Priority(t *testing.T) {
	assert.Equal(t, ":STAT:QUE?", For(Scpi).ErrorDequeueCommand())
	assert.Contains(t, For(Tsp).ErrorDequeueCommand(), "errorqueue.next()")

	p := For(Scpi)
	p.NextErrorQueryCommand = ":SYST:ERR:NEXT?"
	assert.Equal(t, ":SYST:ERR:NEXT?", p.ErrorDequeueCommand())

	p.NextErrorQueryCommand = ""
	p.DequeueErrorQueryCommand = ""
	assert.Empty(t, p.ErrorDequeueCommand())
}

func TestSplitCommands(t *testing.T) {
	scpi := For(Scpi)
	assert.Equal(t, []string{"*CLS; *WAI; *OPC?"}, scpi.SplitCommands("*CLS; *WAI; *OPC?"))

	tsp := For(Tsp)
	assert.Equal(t, []string{"*CLS", "*WAI", "*OPC?"}, tsp.SplitCommands("*CLS; *WAI;*OPC?;"))
	assert.Equal(t, []string{"_G.opc()"}, tsp.SplitCommands("_G.opc()"))
}

func TestRefractoryPeriodFor(t *testing.T) {
	p := For(Tsp)

	d, ok := p.RefractoryPeriodFor(" *RST ")
	assert.True(t, ok)
	assert.Equal(t, p.ResetRefractoryPeriod, d)

	d, ok = p.RefractoryPeriodFor("*cls")
	assert.True(t, ok)
	assert.Equal(t, p.ClearRefractoryPeriod, d)

	_, ok = p.RefractoryPeriodFor("*WAI")
	assert.False(t, ok)
	_, ok = p.RefractoryPeriodFor("")
	assert.False(t, ok)

	assert.Equal(t, 1050*time.Millisecond, p.DeviceClearRefractoryPeriod)
}

func TestFormats(t *testing.T) {
	scpi := For(Scpi)
	assert.Equal(t, "*SRE 191", scpi.ServiceRequestEnableCommand(191))
	assert.Equal(t, "*ESE 61", scpi.StandardEventEnableCommand(61))
	assert.Equal(t, "*ESE 1; *SRE 32", scpi.StandardServiceEnableCommand(1, 32, false))
	assert.Equal(t, "*ESE 1; *SRE 32; *OPC", scpi.StandardServiceEnableCommand(1, 32, true))
	assert.Equal(t, ":STAT:OPER:ENAB 16", scpi.OperationEventEnableCommand(16))
	assert.Empty(t, scpi.NodeExecuteCommand(2, "x=1"))
	assert.Empty(t, scpi.NodeWaitCommand(2))

	tsp := For(Tsp)
	assert.Equal(t, "_G.status.request_enable=64", tsp.ServiceRequestEnableCommand(64))
	assert.Equal(t, `_G.node[2].execute("x=1")`, tsp.NodeExecuteCommand(2, "x=1"))
	assert.Equal(t, "_G.waitcomplete(2)", tsp.NodeWaitCommand(2))
}

func TestSupports(t *testing.T) {
	p := For(Scpi)
	assert.True(t, p.SupportsClearWaitComplete())
	assert.True(t, p.SupportsResetWaitComplete())
	assert.True(t, p.SupportsOperationCompletedQuery())

	p.ClearExecutionStateWaitCompleteCommand = ""
	p.OperationCompletedReplyMessage = ""
	assert.False(t, p.SupportsClearWaitComplete())
	assert.False(t, p.SupportsResetWaitComplete())
	assert.False(t, p.SupportsOperationCompletedQuery())
	assert.False(t, p.IsOperationCompletedReply("1"))
}

func TestIsOperationCompletedReply(t *testing.T) {
	p := For(Scpi)
	assert.True(t, p.IsOperationCompletedReply("1\n"))
	assert.True(t, p.IsOperationCompletedReply(" 1 "))
	assert.False(t, p.IsOperationCompletedReply("0"))

	p.OperationCompletedReplyMessage = "OK"
	assert.True(t, p.IsOperationCompletedReply("ok"))
}

func TestLanguage(t *testing.T) {
	lang, err := ParseLanguage("tsp")
	require.NoError(t, err)
	assert.Equal(t, Tsp, lang)

	lang, err = ParseLanguage(" SCPI ")
	require.NoError(t, err)
	assert.Equal(t, Scpi, lang)

	_, err = ParseLanguage("basic")
	require.Error(t, err)

	assert.Equal(t, "TSP", Tsp.String())
	assert.Contains(t, Scpi.Description(), "IEEE-488.2")
	assert.Equal(t, "Language(7)", Language(7).String())
}
