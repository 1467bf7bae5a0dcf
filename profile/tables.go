package profile

import (
	"time"

	"github.com/arloliu/go-instrument/deverr"
	"github.com/arloliu/go-instrument/status"
)

func scpiProfile() Profile {
	return Profile{
		Language: Scpi,

		ClearExecutionStateCommand:             "*CLS",
		ClearExecutionStateWaitCompleteCommand: "*CLS; *WAI; *OPC?",
		ResetKnownStateCommand:                 "*RST",
		ResetKnownStateWaitCompleteCommand:     "*RST; *WAI; *OPC?",
		IdentityQueryCommand:                   "*IDN?",
		WaitCommand:                            "*WAI",
		OperationCompleteCommand:               "*OPC",
		OperationCompletedQueryCommand:         "*OPC?",
		OperationCompletedReplyMessage:         "1",
		CollectGarbageWaitCompleteCommand:      "",

		ServiceRequestStatusQueryCommand:           "*STB?",
		ServiceRequestEnableCommandFormat:          "*SRE %d",
		ServiceRequestEnableQueryCommand:           "*SRE?",
		StandardEventEnableCommandFormat:           "*ESE %d",
		StandardEventEnableQueryCommand:            "*ESE?",
		StandardEventStatusQueryCommand:            "*ESR?",
		StandardServiceEnableCommandFormat:         "*ESE %d; *SRE %d",
		StandardServiceEnableCompleteCommandFormat: "*ESE %d; *SRE %d; *OPC",
		OperationEventEnableCommandFormat:          ":STAT:OPER:ENAB %d",
		OperationEventEnableQueryCommand:           ":STAT:OPER:ENAB?",
		MeasurementEventEnableCommandFormat:        ":STAT:MEAS:ENAB %d",
		QuestionableEventEnableCommandFormat:       ":STAT:QUES:ENAB %d",
		PresetStatusCommand:                        ":STAT:PRES",
		OperationEventConditionQueryCommand:        ":STAT:OPER:COND?",
		MeasurementEventConditionQueryCommand:      ":STAT:MEAS:COND?",
		QuestionableEventConditionQueryCommand:     ":STAT:QUES:COND?",

		NextErrorQueryCommand:       "",
		DequeueErrorQueryCommand:    ":STAT:QUE?",
		DeviceErrorQueryCommand:     ":SYST:ERR?",
		LastSystemErrorQueryCommand: ":SYST:ERR:NEXT?",
		ClearErrorQueueCommand:      ":STAT:QUE:CLEAR",
		ErrorQueueCountQueryCommand: ":SYST:ERR:COUN?",
		NoErrorCompoundMessage:      deverr.NoErrorCompoundMessage,

		NodeExecuteCommandFormat: "",
		NodeWaitCommandFormat:    "",

		SplitCommonCommands:    false,
		StatusClearDistractive: false,
		ClearsDeviceStructures: true,

		DeviceClearRefractoryPeriod:    100 * time.Millisecond,
		ResetRefractoryPeriod:          200 * time.Millisecond,
		ClearRefractoryPeriod:          100 * time.Millisecond,
		InterfaceClearRefractoryPeriod: 500 * time.Millisecond,

		Bitmasks: status.DefaultBitmasks(),
	}
}

func tspProfile() Profile {
	return Profile{
		Language: Tsp,

		ClearExecutionStateCommand:             "*CLS",
		ClearExecutionStateWaitCompleteCommand: "*CLS; _G.waitcomplete() _G.print('1')",
		ResetKnownStateCommand:                 "*RST",
		ResetKnownStateWaitCompleteCommand:     "*RST; _G.waitcomplete() _G.print('1')",
		IdentityQueryCommand:                   "*IDN?",
		WaitCommand:                            "_G.waitcomplete()",
		OperationCompleteCommand:               "_G.opc()",
		OperationCompletedQueryCommand:         "_G.waitcomplete() _G.print('1')",
		OperationCompletedReplyMessage:         "1",
		CollectGarbageWaitCompleteCommand:      "_G.collectgarbage() _G.waitcomplete()",

		ServiceRequestStatusQueryCommand:           "_G.print(_G.status.condition)",
		ServiceRequestEnableCommandFormat:          "_G.status.request_enable=%d",
		ServiceRequestEnableQueryCommand:           "_G.print(_G.status.request_enable)",
		StandardEventEnableCommandFormat:           "_G.status.standard.enable=%d",
		StandardEventEnableQueryCommand:            "_G.print(_G.status.standard.enable)",
		StandardEventStatusQueryCommand:            "_G.print(_G.status.standard.event)",
		StandardServiceEnableCommandFormat:         "_G.status.standard.enable=%d _G.status.request_enable=%d",
		StandardServiceEnableCompleteCommandFormat: "_G.status.standard.enable=%d _G.status.request_enable=%d _G.opc()",
		OperationEventEnableCommandFormat:          "_G.status.operation.enable=%d",
		OperationEventEnableQueryCommand:           "_G.print(_G.status.operation.enable)",
		MeasurementEventEnableCommandFormat:        "_G.status.measurement.enable=%d",
		QuestionableEventEnableCommandFormat:       "_G.status.questionable.enable=%d",
		PresetStatusCommand:                        "_G.status.reset()",
		OperationEventConditionQueryCommand:        "_G.print(_G.status.operation.condition)",
		MeasurementEventConditionQueryCommand:      "_G.print(_G.status.measurement.condition)",
		QuestionableEventConditionQueryCommand:     "_G.print(_G.status.questionable.condition)",

		NextErrorQueryCommand:       "_G.print(string.format('%d,%s,level=%d',_G.errorqueue.next()))",
		DequeueErrorQueryCommand:    "",
		DeviceErrorQueryCommand:     "",
		LastSystemErrorQueryCommand: "",
		ClearErrorQueueCommand:      "_G.errorqueue.clear()",
		ErrorQueueCountQueryCommand: "_G.print(_G.errorqueue.count)",
		NoErrorCompoundMessage:      "0,Queue Is Empty,level=0",

		NodeExecuteCommandFormat: "_G.node[%d].execute(\"%s\")",
		NodeWaitCommandFormat:    "_G.waitcomplete(%d)",

		SplitCommonCommands:    true,
		StatusClearDistractive: true,
		ClearsDeviceStructures: false,

		DeviceClearRefractoryPeriod:    1050 * time.Millisecond,
		ResetRefractoryPeriod:          500 * time.Millisecond,
		ClearRefractoryPeriod:          100 * time.Millisecond,
		InterfaceClearRefractoryPeriod: 500 * time.Millisecond,

		Bitmasks: status.DefaultBitmasks(),
	}
}
