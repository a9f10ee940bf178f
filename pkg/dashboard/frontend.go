package dashboard

import "net/http"

func (d *Dashboard) serveFrontend(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(frontendHTML))
}

const frontendHTML = `<!DOCTYPE html>
<html lang="en"><head>
<meta charset="utf-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>MineDash Admin</title>
<link href="https://fonts.googleapis.com/css2?family=JetBrains+Mono:wght@300;400;500;600;700&family=Space+Grotesk:wght@400;500;600;700&display=swap" rel="stylesheet">
<style>
:root{--bg:#0a0b10;--sf:#11131c;--sf2:#181b27;--sf3:#202435;--bd:#272c3e;--tx:#ccd1dc;--tx2:#8a93a8;--tx3:#5c657c;--ac:#f59e0b;--gn:#10b981;--rd:#ef4444;--bl:#3b82f6;--pr:#a855f7;--cy:#06b6d4}
*{margin:0;padding:0;box-sizing:border-box}
body{font-family:'JetBrains Mono',monospace;background:var(--bg);color:var(--tx);min-height:100vh}
.app{max-width:1400px;margin:0 auto;padding:20px 24px}
.hdr{display:flex;justify-content:space-between;align-items:center;padding:16px 0;border-bottom:1px solid var(--bd);margin-bottom:22px}
.hdr h1{font-family:'Space Grotesk',sans-serif;font-size:22px;font-weight:700;background:linear-gradient(135deg,var(--ac),var(--pr));-webkit-background-clip:text;-webkit-text-fill-color:transparent}
.hlt{font-size:9px;padding:3px 10px;border-radius:20px;letter-spacing:1.5px;font-weight:600;margin-left:12px;border:1px solid}
.hlt.ok{background:rgba(16,185,129,.1);color:var(--gn);border-color:rgba(16,185,129,.2);-webkit-text-fill-color:var(--gn)}
.hlt.bad{background:rgba(239,68,68,.1);color:var(--rd);border-color:rgba(239,68,68,.2);-webkit-text-fill-color:var(--rd)}
.nav{display:flex;flex-wrap:wrap;gap:4px;margin-bottom:22px;background:var(--sf);border-radius:10px;padding:4px;border:1px solid var(--bd)}
.nav button{font-family:'JetBrains Mono',monospace;font-size:11px;padding:8px 14px;border:none;background:0;color:var(--tx2);cursor:pointer;border-radius:8px;transition:.2s}
.nav button:hover{color:var(--tx);background:var(--sf2)}
.nav button.on{background:var(--ac);color:#14100a}
.sts{display:grid;grid-template-columns:repeat(auto-fit,minmax(140px,1fr));gap:12px;margin-bottom:22px}
.st{background:var(--sf);border:1px solid var(--bd);border-radius:10px;padding:14px 16px}
.st .v{font-size:22px;font-weight:700}.st .v.a{color:var(--ac)}.st .v.g{color:var(--gn)}.st .v.r{color:var(--rd)}.st .v.b{color:var(--bl)}.st .v.p{color:var(--pr)}.st .v.c{color:var(--cy)}
.st .l{font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;margin-top:5px}
.pn{background:var(--sf);border:1px solid var(--bd);border-radius:12px;margin-bottom:18px;overflow:hidden}
.pn-h{display:flex;justify-content:space-between;align-items:center;padding:12px 18px;border-bottom:1px solid var(--bd);background:var(--sf2)}
.pn-h h2{font-family:'Space Grotesk',sans-serif;font-size:13px;font-weight:600}
table{width:100%;border-collapse:collapse}
th{text-align:left;font-size:9px;color:var(--tx3);text-transform:uppercase;letter-spacing:.8px;padding:10px 14px;border-bottom:1px solid var(--bd)}
td{padding:10px 14px;border-bottom:1px solid rgba(39,44,62,.4);font-size:12px}
tr:hover td{background:rgba(245,158,11,.02)}
.bg{display:inline-block;padding:2px 8px;border-radius:5px;font-size:9px;font-weight:600}
.bg-active,.bg-approved,.bg-completed,.bg-credit{background:rgba(16,185,129,.12);color:#34d399;border:1px solid rgba(16,185,129,.2)}
.bg-pending,.bg-paused{background:rgba(245,158,11,.12);color:#fbbf24;border:1px solid rgba(245,158,11,.2)}
.bg-suspended,.bg-rejected,.bg-banned,.bg-debit,.bg-inactive{background:rgba(239,68,68,.12);color:#f87171;border:1px solid rgba(239,68,68,.2)}
.pb{width:64px;height:5px;background:var(--sf3);border-radius:3px;overflow:hidden;display:inline-block;vertical-align:middle;margin-right:6px}
.pb-f{height:100%;border-radius:3px;background:linear-gradient(90deg,var(--ac),var(--gn))}
.btn{font-family:'JetBrains Mono',monospace;font-size:10px;padding:6px 12px;border:none;border-radius:7px;cursor:pointer;font-weight:600;transition:.2s;margin-right:4px}
.btn-g{background:rgba(16,185,129,.15);color:#34d399;border:1px solid rgba(16,185,129,.25)}.btn-g:hover{background:rgba(16,185,129,.3)}
.btn-r{background:rgba(239,68,68,.15);color:#f87171;border:1px solid rgba(239,68,68,.25)}.btn-r:hover{background:rgba(239,68,68,.3)}
.btn-n{background:var(--sf3);color:var(--tx2);border:1px solid var(--bd)}.btn-n:hover{color:var(--tx)}
.inp{font-family:'JetBrains Mono',monospace;font-size:11px;padding:8px 12px;background:var(--sf2);border:1px solid var(--bd);border-radius:8px;color:var(--tx);outline:0}
.inp:focus{border-color:var(--ac)}
.pg{display:flex;align-items:center;gap:10px;padding:10px 16px;font-size:10px;color:var(--tx3)}
.emp{text-align:center;padding:40px;color:var(--tx3);font-size:12px}
.toast{position:fixed;bottom:24px;right:24px;background:var(--sf);border:1px solid var(--gn);border-radius:10px;padding:14px 20px;color:var(--gn);font-size:12px;z-index:200;animation:slideIn .3s}
@keyframes slideIn{from{transform:translateX(100px);opacity:0}to{transform:translateX(0);opacity:1}}
</style></head><body>
<div id="root"></div>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react/18.2.0/umd/react.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/react-dom/18.2.0/umd/react-dom.production.min.js"></script>
<script src="https://cdnjs.cloudflare.com/ajax/libs/babel-standalone/7.23.9/babel.min.js"></script>
<script type="text/babel">
const{useState,useEffect,useCallback}=React;
const useFetch=(u,ms=10000)=>{const[d,sD]=useState(null);const ld=useCallback(()=>{fetch(u).then(r=>r.json()).then(sD).catch(()=>{})},[u]);useEffect(()=>{ld();const i=setInterval(ld,ms);return()=>clearInterval(i)},[ld,ms]);return{d,r:ld}};
const SB=s=>(<span className={'bg bg-'+(s||'pending')}>{s||'?'}</span>);
const PB=p=>(<span><span className="pb"><span className="pb-f" style={{width:p+'%'}}/></span>{p}%</span>);
const TA=t=>{if(!t)return'-';const d=Date.now()-new Date(t).getTime();if(d<60000)return'now';if(d<3.6e6)return Math.floor(d/6e4)+'m';if(d<8.64e7)return Math.floor(d/3.6e6)+'h';return Math.floor(d/8.64e7)+'d'};
const post=(u,b)=>fetch(u,{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify(b)}).then(r=>{if(!r.ok)return r.text().then(t=>{throw t});return r.json()});

function App(){
  const[tab,sTab]=useState('overview'),[toast,sToast]=useState('');
  const notify=m=>{if(!m)return;sToast(m);setTimeout(()=>sToast(''),4000)};
  const fail=e=>notify('⚠ '+e);
  const TABS=['overview','users','kyc','payments','mining','referrals','notifications','banners','promos','settings','audit'];

  return <div className="app">
    <div className="hdr">
      <Header/>
    </div>
    <div className="nav">{TABS.map(t=>
      <button key={t} className={tab===t?'on':''} onClick={()=>sTab(t)}>{t.toUpperCase()}</button>)}
    </div>
    {tab==='overview'&&<Overview/>}
    {tab==='users'&&<Users notify={notify} fail={fail}/>}
    {tab==='kyc'&&<Review kind="kyc" notify={notify} fail={fail}/>}
    {tab==='payments'&&<Review kind="payments" notify={notify} fail={fail}/>}
    {tab==='mining'&&<Mining notify={notify} fail={fail}/>}
    {tab==='referrals'&&<Referrals/>}
    {tab==='notifications'&&<Notifications notify={notify} fail={fail}/>}
    {tab==='banners'&&<Banners notify={notify} fail={fail}/>}
    {tab==='promos'&&<Promos notify={notify} fail={fail}/>}
    {tab==='settings'&&<Settings notify={notify} fail={fail}/>}
    {tab==='audit'&&<Audit/>}
    {toast&&<div className="toast">{toast}</div>}
  </div>;
}

function Header(){
  const{d}=useFetch('/api/overview',15000);
  const ok=d&&d.health&&d.health.status==='ok';
  return <div style={{display:'flex',alignItems:'center'}}>
    <h1>⛏️ MineDash Admin</h1>
    <span className={'hlt '+(ok?'ok':'bad')}>{ok?'BACKEND OK':'BACKEND DOWN'}</span>
  </div>;
}

function Overview(){
  const{d}=useFetch('/api/overview');
  const{d:trend}=useFetch('/api/trend?limit=30',30000);
  const s=d&&d.stats||{};
  return <div>
    <div className="sts">
      <div className="st"><div className="v b">{s.totalUsers||0}</div><div className="l">Total Users</div></div>
      <div className="st"><div className="v g">{s.activeMiners||0}</div><div className="l">Active Miners</div></div>
      <div className="st"><div className="v a">{s.pendingKyc||0}</div><div className="l">Pending KYC</div></div>
      <div className="st"><div className="v r">{s.pendingPayments||0}</div><div className="l">Pending Payments</div></div>
      <div className="st"><div className="v p">{d&&d.coins||0}</div><div className="l">Coins in Circulation</div></div>
      <div className="st"><div className="v c">{s.newUsersInPeriod||0}</div><div className="l">New ({s.period||'7d'})</div></div>
    </div>
    <div className="pn"><div className="pn-h"><h2>Snapshot History</h2></div>
      <table><thead><tr><th>When</th><th>Users</th><th>Miners</th><th>Pending KYC</th><th>Circulation</th></tr></thead><tbody>
      {(trend||[]).slice(-12).reverse().map((p,i)=><tr key={i}>
        <td>{TA(p.at)}</td><td>{p.stats.totalUsers}</td><td>{p.stats.activeMiners}</td>
        <td>{p.stats.pendingKyc}</td><td>{p.stats.coinsInCirculation}</td></tr>)}
      </tbody></table>
      {(!trend||!trend.length)&&<div className="emp">No snapshots yet</div>}
    </div>
  </div>;
}

function Users({notify,fail}){
  const[q,sQ]=useState('');
  const{d,r}=useFetch('/api/users?search='+encodeURIComponent(q));
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  const s=d&&d.stats||{};
  const adjust=(id,deduct)=>{
    const amount=parseFloat(prompt(deduct?'Deduct amount':'Add amount')||'0');
    const reason=prompt('Reason')||'';
    post('/api/users/adjust',{userId:id,amount,reason,deduct}).then(r).catch(fail);
  };
  const create=()=>{
    const name=prompt('Name')||'';
    const email=prompt('Email')||'';
    const phone=prompt('Phone (optional)')||'';
    post('/api/users/create',{name,email,phone}).then(r).catch(fail);
  };
  return <div>
    <div className="sts">
      <div className="st"><div className="v b">{s.totalUsers||0}</div><div className="l">Users</div></div>
      <div className="st"><div className="v g">{s.activeUsers||0}</div><div className="l">Active</div></div>
      <div className="st"><div className="v r">{s.suspendedUsers||0}</div><div className="l">Suspended</div></div>
      <div className="st"><div className="v a">{s.pendingKyc||0}</div><div className="l">Pending KYC</div></div>
    </div>
    <div className="pn"><div className="pn-h"><h2>Users</h2>
      <div>
        <input className="inp" placeholder="search name / email / phone" value={q} onChange={e=>sQ(e.target.value)}/>
        <button className="btn btn-g" onClick={create}>+ user</button>
      </div></div>
      <table><thead><tr><th>Name</th><th>Email</th><th>Status</th><th>KYC</th><th>Balance</th><th>Ownership</th><th></th></tr></thead><tbody>
      {(d&&d.users||[]).map(u=><tr key={u.id}>
        <td>{u.name}</td><td>{u.email}</td><td>{SB(u.status)}</td><td>{SB(u.kycStatus)}</td>
        <td>{u.coinBalance}</td><td>{PB(u.ownership)}</td>
        <td>
          <button className="btn btn-g" onClick={()=>adjust(u.id,false)}>+ coins</button>
          <button className="btn btn-r" onClick={()=>adjust(u.id,true)}>- coins</button>
        </td></tr>)}
      </tbody></table>
      <div className="pg">{d&&d.pageText}</div>
    </div>
  </div>;
}

function Review({kind,notify,fail}){
  const[tab,sTab]=useState('pending');
  const{d,r}=useFetch('/api/'+kind+'?tab='+tab);
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  const rows=d&&(d.requests||d.payments)||[];
  const act=(id,approve)=>{
    const reason=approve?'':prompt('Rejection reason (required)')||'';
    post('/api/'+kind+'/'+(approve?'approve':'reject'),{id,reason}).then(r).catch(fail);
  };
  return <div className="pn"><div className="pn-h">
    <h2>{kind==='kyc'?'KYC Requests':'Payment Proofs'}{d&&d.pending?' · '+d.pending+' pending':''}</h2>
    <div>{['pending','approved','rejected'].map(t=>
      <button key={t} className={'btn '+(tab===t?'btn-g':'btn-n')} onClick={()=>sTab(t)}>{t}</button>)}</div></div>
    <table><thead><tr><th>User</th><th>{kind==='kyc'?'Document':'UTR'}</th><th>Status</th><th>Submitted</th><th></th></tr></thead><tbody>
    {rows.map(x=><tr key={x.id}>
      <td>{x.userName}</td><td>{x.documentType||x.utr||'-'}</td><td>{SB(x.status)}</td><td>{TA(x.createdAt||x.submittedAt)}</td>
      <td>{x.status==='pending'&&<span>
        <button className="btn btn-g" onClick={()=>act(x.id,true)}>approve</button>
        <button className="btn btn-r" onClick={()=>act(x.id,false)}>reject</button></span>}
      </td></tr>)}
    </tbody></table>
    {!rows.length&&<div className="emp">Queue is empty</div>}
    <div className="pg">{d&&d.pageText}</div>
  </div>;
}

function Mining({notify,fail}){
  const{d,r}=useFetch('/api/mining');
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  const s=d&&d.stats||{};
  return <div>
    <div className="sts">
      <div className="st"><div className="v g">{s.activeSessions||0}</div><div className="l">Active Sessions</div></div>
      <div className="st"><div className="v b">{s.totalMinedToday||0}</div><div className="l">Mined Today</div></div>
      <div className="st"><div className="v a">{d&&d.settings&&d.settings.baseRate||0}</div><div className="l">Base Rate</div></div>
      <div className="st"><div className="v p">{d&&d.settings&&d.settings.cycleDurationHours||0}h</div><div className="l">Cycle</div></div>
    </div>
    <div className="pn"><div className="pn-h"><h2>Sessions</h2></div>
      <table><thead><tr><th>User</th><th>Status</th><th>Progress</th><th>Remaining</th><th>Earned</th><th></th></tr></thead><tbody>
      {(d&&d.sessions||[]).map(s=><tr key={s.id}>
        <td>{s.userName}</td><td>{SB(s.status)}</td><td>{PB(s.progress)}</td>
        <td>{s.remaining}</td><td>{s.earnedCoins}</td>
        <td>{s.status==='active'&&<button className="btn btn-r" onClick={()=>post('/api/mining/cancel',{id:s.id}).then(r).catch(fail)}>cancel</button>}</td>
      </tr>)}
      </tbody></table>
      <div className="pg">{d&&d.pageText}</div>
    </div>
  </div>;
}

function Referrals(){
  const[q,sQ]=useState('');
  const{d}=useFetch('/api/referrals?search='+encodeURIComponent(q));
  const s=d&&d.stats||{};
  return <div>
    <div className="sts">
      <div className="st"><div className="v b">{s.totalReferrals||0}</div><div className="l">Total Referrals</div></div>
      <div className="st"><div className="v g">{s.directReferrals||0}</div><div className="l">Direct</div></div>
      <div className="st"><div className="v a">{s.totalCoinsPaid||0}</div><div className="l">Coins Paid</div></div>
    </div>
    <div className="pn"><div className="pn-h"><h2>Team Leaderboard</h2>
      <input className="inp" placeholder="search referrer" value={q} onChange={e=>sQ(e.target.value)}/></div>
      <table><thead><tr><th>Referrer</th><th>Direct</th><th>Indirect</th><th>Total</th><th>Coins Earned</th></tr></thead><tbody>
      {(d&&d.team||[]).map(t=><tr key={t.referrerId}>
        <td>{t.referrerName}</td><td>{t.directReferrals}</td><td>{t.indirectReferrals}</td><td>{t.totalReferrals}</td><td>{t.coinsEarned}</td></tr>)}
      </tbody></table>
      <div className="pg">{d&&d.pageText}</div>
    </div>
  </div>;
}

function Notifications({notify,fail}){
  const{d,r}=useFetch('/api/notifications');
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  const send=()=>{
    const title=prompt('Title')||'',message=prompt('Message')||'';
    post('/api/notifications/send',{title,message,type:'info',target:'all'}).then(r).catch(fail);
  };
  return <div className="pn"><div className="pn-h"><h2>Notifications</h2>
    <button className="btn btn-g" onClick={send}>+ broadcast</button></div>
    <table><thead><tr><th>Title</th><th>Type</th><th>Target</th><th>Sent</th></tr></thead><tbody>
    {(d&&d.notifications||[]).map(n=><tr key={n.id}>
      <td>{n.title}</td><td>{n.type}</td><td>{n.target}</td><td>{TA(n.createdAt)}</td></tr>)}
    </tbody></table>
    <div className="pg">{d&&d.pageText}</div>
  </div>;
}

function Banners({notify,fail}){
  const{d,r}=useFetch('/api/banners');
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  return <div className="pn"><div className="pn-h"><h2>Banners · {d&&d.active||0}/2 active</h2></div>
    <table><thead><tr><th>Title</th><th>Status</th><th>Order</th><th>Views</th><th></th></tr></thead><tbody>
    {(d&&d.banners||[]).map(b=><tr key={b.id}>
      <td>{b.title}</td><td>{SB(b.status)}</td><td>{b.order}</td><td>{b.views}</td>
      <td><button className="btn btn-n" onClick={()=>post('/api/banners/toggle',{id:b.id}).then(r).catch(fail)}>toggle</button></td>
    </tr>)}
    </tbody></table>
  </div>;
}

function Promos({notify,fail}){
  const[q,sQ]=useState('');
  const{d,r}=useFetch('/api/promos?search='+encodeURIComponent(q));
  useEffect(()=>{if(d&&d.message)notify(d.message)},[d]);
  return <div className="pn"><div className="pn-h"><h2>Promo Codes</h2>
    <input className="inp" placeholder="search code" value={q} onChange={e=>sQ(e.target.value)}/></div>
    <table><thead><tr><th>Code</th><th>Type</th><th>Value</th><th>Used</th><th>Active</th><th></th></tr></thead><tbody>
    {(d&&d.promoCodes||[]).map(p=><tr key={p.id}>
      <td>{p.code}</td><td>{p.type}</td><td>{p.value}</td><td>{p.usedCount}/{p.maxUses}</td>
      <td>{SB(p.isActive?'active':'inactive')}</td>
      <td><button className="btn btn-n" onClick={()=>post('/api/promos/toggle',{id:p.id}).then(r).catch(fail)}>toggle</button></td>
    </tr>)}
    </tbody></table>
  </div>;
}

function Settings({notify,fail}){
  const{d,r}=useFetch('/api/settings',60000);
  const[draft,sDraft]=useState(null);
  useEffect(()=>{if(d&&d.settings&&!draft)sDraft(d.settings)},[d]);
  if(!draft)return <div className="emp">Loading…</div>;
  const keys=Object.keys(draft).sort();
  return <div className="pn"><div className="pn-h"><h2>App Settings</h2>
    <button className="btn btn-g" onClick={()=>post('/api/settings',draft).then(()=>{notify('Settings saved');r()}).catch(fail)}>save all</button></div>
    <table><tbody>
    {keys.map(k=><tr key={k}><td style={{width:280}}>{k}</td>
      <td><input className="inp" style={{width:'100%'}} value={String(draft[k])}
        onChange={e=>{const v=e.target.value;const n=parseFloat(v);
          sDraft({...draft,[k]:(v!==''&&!isNaN(n)&&String(n)===v)?n:v})}}/></td></tr>)}
    </tbody></table>
  </div>;
}

function Audit(){
  const{d}=useFetch('/api/audit?limit=100',15000);
  return <div className="pn"><div className="pn-h"><h2>Action Log</h2></div>
    <table><thead><tr><th>When</th><th>Entity</th><th>Action</th><th>Target</th><th>Outcome</th><th>Note</th></tr></thead><tbody>
    {(d||[]).map(a=><tr key={a.id}>
      <td>{TA(a.created_at)}</td><td>{a.entity}</td><td>{a.action}</td>
      <td>{a.target_name||a.target_id}</td><td>{SB(a.outcome==='ok'?'approved':'rejected')}</td><td>{a.message}</td></tr>)}
    </tbody></table>
    {(!d||!d.length)&&<div className="emp">No actions recorded yet</div>}
  </div>;
}

ReactDOM.createRoot(document.getElementById('root')).render(<App/>);
</script></body></html>`
